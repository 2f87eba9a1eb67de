package service

import (
	"context"
	"database/sql"
	"log/slog"

	"blogapi/internal/common"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/model"
	"blogapi/internal/domain/repository"
	"blogapi/internal/platform/cache"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	tx          repository.TxRunner
	posts       *cache.Posts // nil disables caching
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	tx repository.TxRunner,
	posts *cache.Posts,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		tx:          tx,
		posts:       posts,
	}
}

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"desc"`
	Photo       *string  `json:"photo,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

type UpdatePostRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"desc,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
}

// Create stores a post owned by the authenticated identity. The owner must
// still exist; a deleted account's token cannot create posts.
func (s *PostService) Create(ctx context.Context, actor security.Claims, req CreatePostRequest) (*model.Post, error) {
	var v common.Violations
	v.Add(common.Required("title", req.Title))
	v.Add(common.MaxLen("title", req.Title, 200))
	v.Add(common.Required("desc", req.Description))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.Errorf("owner does not exist: %w", common.ErrBadRequest)
	}

	post := &model.Post{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Username:    actor.Username,
		UserID:      actor.UserID,
		Photo:       req.Photo,
		Categories:  req.Categories,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	if cached, err := s.posts.Get(ctx, id); err != nil {
		slog.Warn("post cache read failed", "post_id", id, "err", err)
	} else if cached != nil {
		return cached, nil
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Set(ctx, post); err != nil {
		slog.Warn("post cache write failed", "post_id", id, "err", err)
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, search string, page, pageSize int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.postRepo.List(ctx, search, pageSize, (page-1)*pageSize)
}

func (s *PostService) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

func (s *PostService) Update(ctx context.Context, actor security.Claims, id string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor.UserID {
		return nil, common.Errorf("not the post owner: %w", common.ErrForbidden)
	}

	if req.Title != nil {
		post.Title = *req.Title
		post.Slug = slug.Make(*req.Title)
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Photo != nil {
		post.Photo = req.Photo
	}
	if req.Categories != nil {
		post.Categories = *req.Categories
	}

	var v common.Violations
	v.Add(common.Required("title", post.Title))
	v.Add(common.Required("desc", post.Description))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return post, nil
}

// Delete removes the post and every comment referencing it in a single
// transaction, so concurrent readers never observe a half-finished cascade.
func (s *PostService) Delete(ctx context.Context, actor security.Claims, id string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != actor.UserID {
		return common.Errorf("not the post owner: %w", common.ErrForbidden)
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.commentRepo.DeleteByPostTx(ctx, tx, id); err != nil {
			return err
		}
		return s.postRepo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	slog.Info("post deleted with comments", "post_id", id, "user_id", actor.UserID)
	return nil
}

func (s *PostService) invalidate(ctx context.Context, ids ...string) {
	if err := s.posts.Invalidate(ctx, ids...); err != nil {
		slog.Warn("post cache invalidation failed", "err", err)
	}
}
