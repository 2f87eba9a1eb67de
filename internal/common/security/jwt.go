package security

import (
	"net/http"
	"time"

	"blogapi/internal/common"
	"blogapi/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookieName is where clients hold the session token.
const TokenCookieName = "token"

// Claims is the identity carried by a session token.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenManager signs and verifies session tokens. The secret comes from the
// injected config; whoever holds it can mint or verify tokens, and there is
// no revocation list.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenManager(cfg config.Config) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", cfg.JWTSecret, nil),
		exp:  cfg.JWTExp,
	}
}

// Auth exposes the verifier for the router's jwtauth middleware.
func (tm *TokenManager) Auth() *jwtauth.JWTAuth { return tm.auth }

// Issue signs a token for the given identity, expiring at now+TTL.
func (tm *TokenManager) Issue(userID, username, email string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(tm.exp)
	claims := jwt.MapClaims{
		"uid":      userID,
		"username": username,
		"email":    email,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}
	_, tokenString, err := tm.auth.Encode(claims)
	return tokenString, exp, err
}

// Parse verifies signature and expiry, returning the embedded identity.
// Expired tokens surface jwtauth.ErrExpired for callers that care.
func (tm *TokenManager) Parse(tokenString string) (Claims, error) {
	tok, err := jwtauth.VerifyToken(tm.auth, tokenString)
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(tok.PrivateClaims())
}

// ClaimsFromMap extracts the identity from decoded token claims.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	uid, ok := m["uid"].(string)
	if !ok || uid == "" {
		return Claims{}, common.Errorf("uid claim missing: %w", common.ErrUnauthorized)
	}
	username, _ := m["username"].(string)
	email, _ := m["email"].(string)
	return Claims{UserID: uid, Username: username, Email: email}, nil
}

// TokenFromCookie is a jwtauth token finder for the session cookie.
func TokenFromCookie(r *http.Request) string {
	c, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
