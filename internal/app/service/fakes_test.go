package service_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"blogapi/internal/common"
	"blogapi/internal/domain/model"
	"blogapi/internal/domain/repository"
)

// passTx runs the transactional closure directly; the fakes below ignore the
// tx handle, so cascade composition is exercised without a database.
type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.Errorf("username or email already exists: %w", common.ErrConflict)
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return common.Errorf("username or email already exists: %w", common.ErrConflict)
		}
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type fakePostRepo struct {
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*model.Post{}}
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(ctx context.Context, search string, limit, offset int) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range r.posts {
		if search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return []model.Post{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) ListByUser(ctx context.Context, userID string) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return common.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) IDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for id, p := range r.posts {
		if p.UserID == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*model.Comment{}}
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return common.ErrNotFound
	}
	comment.UpdatedAt = time.Now()
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	if _, ok := r.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostTx(ctx context.Context, tx *sql.Tx, postID string) error {
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
	for id, c := range r.comments {
		if c.UserID == userID {
			delete(r.comments, id)
		}
	}
	return nil
}
