package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"blogapi/internal/common"
	"blogapi/internal/domain/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// List returns posts newest-first, optionally filtered by a title search.
	List(ctx context.Context, search string, limit, offset int) ([]model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) error
	DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error
	// IDsByUser supports cache invalidation before a user cascade runs.
	IDsByUser(ctx context.Context, userID string) ([]string, error)
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

const postColumns = `id, title, slug, description, username, user_id, photo, categories, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	post := &model.Post{}
	var categories []byte
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Description, &post.Username,
		&post.UserID, &post.Photo, &categories, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &post.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}
	return post, nil
}

func categoriesJSON(categories []string) (any, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	return json.Marshal(categories)
}

func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	cats, err := categoriesJSON(post.Categories)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	query := `INSERT INTO posts (id, title, slug, description, username, user_id, photo, categories)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Slug, post.Description, post.Username, post.UserID, post.Photo, cats,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.FindByID: %w", err)
	}
	return post, nil
}

func (r *pgPostRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	args := []any{}
	if search != "" {
		query += ` WHERE title ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.queryPosts(ctx, query, args...)
}

func (r *pgPostRepository) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return r.queryPosts(ctx,
		`SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *pgPostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.queryPosts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("pgPostRepository.queryPosts: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *pgPostRepository) Update(ctx context.Context, post *model.Post) error {
	cats, err := categoriesJSON(post.Categories)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	query := `UPDATE posts
	             SET title = $2, slug = $3, description = $4, photo = $5, categories = $6, updated_at = now()
	           WHERE id = $1
	          RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Slug, post.Description, post.Photo, cats,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	return nil
}

func (r *pgPostRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPostRepository.DeleteTx: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPostRepository) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgPostRepository.DeleteByUserTx: %w", err)
	}
	return nil
}

func (r *pgPostRepository) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.IDsByUser: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
