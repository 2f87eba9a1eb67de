package repository

import (
	"context"
	"database/sql"
)

// TxRunner executes fn within a single database transaction. The production
// implementation is database.DB; tests supply a pass-through runner.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
