package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"blogapi/internal/common"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/model"
	"blogapi/internal/domain/repository"
	"blogapi/internal/platform/cache"
)

type UserService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	tx          repository.TxRunner
	posts       *cache.Posts
	bcryptCost  int
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	tx repository.TxRunner,
	posts *cache.Posts,
	bcryptCost int,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		tx:          tx,
		posts:       posts,
		bcryptCost:  bcryptCost,
	}
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// Update lets an identity modify only its own record. A new password is
// re-hashed; everything else is patched in place.
func (s *UserService) Update(ctx context.Context, actor security.Claims, id string, req UpdateUserRequest) (*model.User, error) {
	if actor.UserID != id {
		return nil, common.Errorf("can only update own account: %w", common.ErrForbidden)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var v common.Violations
	if req.Username != nil {
		v.Add(common.Required("username", *req.Username))
		v.Add(common.MinLen("username", *req.Username, 3))
		user.Username = *req.Username
	}
	if req.Email != nil {
		v.Add(common.Email("email", *req.Email))
		user.Email = *req.Email
	}
	if req.Password != nil {
		v.Add(common.MinLen("password", *req.Password, 6))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hashed, err := security.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// Delete removes the account with its posts and authored comments in one
// transaction. Comments written by other users on the deleted posts are left
// in place: the cascade follows direct authorship references only, not the
// full transitive closure.
func (s *UserService) Delete(ctx context.Context, actor security.Claims, id string) error {
	if actor.UserID != id {
		return common.Errorf("can only delete own account: %w", common.ErrForbidden)
	}

	// Collect post ids first so the cache can be purged after commit.
	postIDs, err := s.postRepo.IDsByUser(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.commentRepo.DeleteByUserTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.postRepo.DeleteByUserTx(ctx, tx, id); err != nil {
			return err
		}
		return s.userRepo.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if err := s.posts.Invalidate(ctx, postIDs...); err != nil {
		slog.Warn("post cache invalidation failed", "user_id", id, "err", err)
	}
	slog.Info("user deleted with owned posts and comments",
		"user_id", id, "posts", len(postIDs))
	return nil
}
