package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g. username or email taken
	ErrInternalServer = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		// Duplicate username/email is surfaced as a validation-style 400.
		return http.StatusBadRequest
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// SafeMessage returns a client-facing message for err. Unknown errors collapse
// to a generic message so driver internals never reach the response body.
func SafeMessage(err error) string {
	for _, known := range []error{ErrNotFound, ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrConflict} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict.Error()
	}
	return ErrInternalServer.Error()
}

// Errorf creates a new error with formatting, useful for wrapping sentinels.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
