package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogapi/internal/common"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/model"
	"blogapi/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *security.TokenManager
	bcryptCost int
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a freshly issued token plus the identity it proves.
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var v common.Violations
	v.Add(common.Required("username", req.Username))
	v.Add(common.MinLen("username", req.Username, 3))
	v.Add(common.MaxLen("username", req.Username, 64))
	v.Add(common.Required("email", req.Email))
	v.Add(common.Email("email", req.Email))
	v.Add(common.MinLen("password", req.Password, 6))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hashed, err := security.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// Login verifies the credentials and issues a session token. An unknown email
// is NotFound; a wrong password is Unauthorized.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var v common.Violations
	v.Add(common.Required("email", req.Email))
	v.Add(common.Required("password", req.Password))
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	user.HashedPassword = ""
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}
