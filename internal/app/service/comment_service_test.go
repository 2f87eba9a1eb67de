package service_test

import (
	"context"
	"errors"
	"testing"

	"blogapi/internal/app/service"
	"blogapi/internal/common"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/model"
)

func newCommentFixture(t *testing.T) (*service.CommentService, *fakeCommentRepo, *fakePostRepo) {
	t.Helper()
	comments := newFakeCommentRepo()
	posts := newFakePostRepo()

	if err := posts.Create(context.Background(), &model.Post{
		ID: "p1", Title: "Post", Description: "d", Username: "alice", UserID: "u-alice",
	}); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return service.NewCommentService(comments, posts, passTx{}), comments, posts
}

var commenter = security.Claims{UserID: "u-bob", Username: "bob", Email: "bob@example.com"}

func TestCommentService_Create(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	comment, err := svc.Create(context.Background(), commenter, service.CreateCommentRequest{
		Body: "nice post", PostID: "p1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.UserID != "u-bob" {
		t.Fatalf("expected author reference from identity, got %q", comment.UserID)
	}
	if comment.Author != "bob" {
		t.Fatalf("expected author name to default to username, got %q", comment.Author)
	}
}

func TestCommentService_Create_PostMustExist(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	_, err := svc.Create(context.Background(), commenter, service.CreateCommentRequest{
		Body: "into the void", PostID: "missing",
	})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for missing post, got %v", err)
	}
}

func TestCommentService_Update_OwnershipEnforced(t *testing.T) {
	svc, _, _ := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, commenter, service.CreateCommentRequest{Body: "mine", PostID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	intruder := security.Claims{UserID: "u-eve", Username: "eve"}
	_, err = svc.Update(ctx, intruder, comment.ID, service.UpdateCommentRequest{Body: "hijacked"})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, commenter, comment.ID, service.UpdateCommentRequest{Body: "edited"})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Body != "edited" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestCommentService_Delete_Idempotence(t *testing.T) {
	svc, _, _ := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, commenter, service.CreateCommentRequest{Body: "bye", PostID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, commenter, comment.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, commenter, comment.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
