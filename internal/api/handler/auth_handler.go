package handler

import (
	"encoding/json"
	"net/http"

	"blogapi/internal/app/service"
	"blogapi/internal/common"
	"blogapi/internal/common/security"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      *security.TokenManager
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, tokens *security.TokenManager, env string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokens:       tokens,
		secureCookie: env == "prod",
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)
	r.Get("/refetch", h.refetch)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     security.TokenCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithJSON(w, http.StatusOK, session.User)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// refetch returns the identity behind the session cookie, or 404 when the
// cookie is missing or no longer valid.
func (h *AuthHandler) refetch(w http.ResponseWriter, r *http.Request) {
	tokenString := security.TokenFromCookie(r)
	if tokenString == "" {
		common.RespondWithError(w, http.StatusNotFound, "no session")
		return
	}
	claims, err := h.tokens.Parse(tokenString)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "no session")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, claims)
}
