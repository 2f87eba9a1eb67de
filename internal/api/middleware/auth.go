package middleware

import (
	"context"
	"errors"
	"net/http"

	"blogapi/internal/common"
	"blogapi/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const claimsCtxKey contextKey = "authClaims"

// Authenticator admits a request only when the verifier found a valid session
// token, and attaches the decoded identity to the context. It proves "is a
// logged-in user"; resource ownership is enforced by the services.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			msg := "authorization token required"
			switch {
			case errors.Is(err, jwtauth.ErrExpired):
				msg = "token expired"
			case !errors.Is(err, jwtauth.ErrNoTokenFound):
				msg = "invalid token"
			}
			common.RespondWithError(w, http.StatusUnauthorized, msg)
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		identity, err := security.ClaimsFromMap(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), claimsCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the identity attached by Authenticator.
func ClaimsFromContext(ctx context.Context) (security.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(security.Claims)
	return claims, ok
}
