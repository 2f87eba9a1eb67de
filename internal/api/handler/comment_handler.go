package handler

import (
	"encoding/json"
	"net/http"

	"blogapi/internal/api/middleware"
	"blogapi/internal/app/service"
	"blogapi/internal/common"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/post/{postID}", h.listByPost) // public

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Post("/create", h.createComment)
		protected.Put("/{commentID}", h.updateComment)
		protected.Delete("/{commentID}", h.deleteComment)
	})
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req service.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) listByPost(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListByPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req service.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	comment, err := h.commentService.Update(r.Context(), actor, chi.URLParam(r, "commentID"), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	if err := h.commentService.Delete(r.Context(), actor, chi.URLParam(r, "commentID")); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
