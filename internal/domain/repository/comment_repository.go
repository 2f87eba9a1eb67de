package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogapi/internal/common"
	"blogapi/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) error
	DeleteByPostTx(ctx context.Context, tx *sql.Tx, postID string) error
	DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error
}

type pgCommentRepository struct {
	db *sql.DB
}

func NewPgCommentRepository(db *sql.DB) CommentRepository {
	return &pgCommentRepository{db: db}
}

const commentColumns = `id, body, author, post_id, user_id, created_at, updated_at`

func (r *pgCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `INSERT INTO comments (id, body, author, post_id, user_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Body, comment.Author, comment.PostID, comment.UserID,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id,
	).Scan(
		&comment.ID, &comment.Body, &comment.Author, &comment.PostID, &comment.UserID,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCommentRepository.FindByID: %w", err)
	}
	return comment, nil
}

func (r *pgCommentRepository) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("pgCommentRepository.ListByPost: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.Author, &c.PostID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgCommentRepository.ListByPost: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *pgCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `UPDATE comments SET body = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Body).Scan(&comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgCommentRepository.Update: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteTx: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCommentRepository) DeleteByPostTx(ctx context.Context, tx *sql.Tx, postID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteByPostTx: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteByUserTx: %w", err)
	}
	return nil
}
