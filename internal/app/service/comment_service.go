package service

import (
	"context"
	"database/sql"
	"errors"

	"blogapi/internal/common"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/model"
	"blogapi/internal/domain/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	tx          repository.TxRunner
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	tx repository.TxRunner,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, tx: tx}
}

type CreateCommentRequest struct {
	Body   string `json:"body"`
	PostID string `json:"post_id"`
	Author string `json:"author,omitempty"`
}

type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// Create checks that the referenced post exists before inserting. The check
// and the insert are not atomic; a post deleted in between leaves an orphan,
// which the partial-cascade policy tolerates anyway.
func (s *CommentService) Create(ctx context.Context, actor security.Claims, req CreateCommentRequest) (*model.Comment, error) {
	var v common.Violations
	v.Add(common.Required("body", req.Body))
	v.Add(common.MaxLen("body", req.Body, 2000))
	v.Add(common.Required("post_id", req.PostID))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.FindByID(ctx, req.PostID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("post does not exist: %w", common.ErrBadRequest)
		}
		return nil, err
	}

	author := req.Author
	if author == "" {
		author = actor.Username
	}

	comment := &model.Comment{
		ID:     uuid.NewString(),
		Body:   req.Body,
		Author: author,
		PostID: req.PostID,
		UserID: actor.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) Update(ctx context.Context, actor security.Claims, id string, req UpdateCommentRequest) (*model.Comment, error) {
	var v common.Violations
	v.Add(common.Required("body", req.Body))
	v.Add(common.MaxLen("body", req.Body, 2000))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.UserID {
		return nil, common.Errorf("not the comment author: %w", common.ErrForbidden)
	}

	comment.Body = req.Body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor security.Claims, id string) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.UserID {
		return common.Errorf("not the comment author: %w", common.ErrForbidden)
	}

	return s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.commentRepo.DeleteTx(ctx, tx, id)
	})
}
