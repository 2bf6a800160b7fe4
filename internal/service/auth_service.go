package service

import (
	"context"
	"errors"
	"strings"

	"devconnector/internal/domain"
	"devconnector/pkg/utils"
)

// TokenIssuer signs a token carrying the user id.
type TokenIssuer interface {
	Issue(uid string) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name"     binding:"required"       msg:"Name is required"`
	Email    string `json:"email"    binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required,min=6" msg:"Please enter a password with 6 or more characters"`
}

type LoginInput struct {
	Email    string `json:"email"    binding:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" binding:"required"       msg:"Password is required"`
}

type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register creates the account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := normalizeEmail(in.Email)
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       utils.Gravatar(email),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID)
}

// Login checks the credentials. An unknown email and a wrong password
// both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID)
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.FindByID(ctx, uid)
}
