package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"todo_api/internal/domain"
	"todo_api/internal/logger"
	"todo_api/internal/repository"

	"github.com/google/uuid"
)

const (
	MinPasswordLen = 8
	// bcrypt only looks at the first 72 bytes
	maxPasswordBytes = 72
)

// UserStore is the credential store the auth flow runs against.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *domain.User, beforeCommit func() error) error
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by both signup and signin.
type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	hasher PasswordHasher
}

func NewAuthService(users UserStore, tokens *TokenService, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Signup registers a user and issues a token. The insert and the token
// issuance share one transaction, so a failure leaves no user row behind.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if utf8.RuneCountInString(in.Password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}
	if len(in.Password) > maxPasswordBytes {
		verr := &ValidationError{}
		verr.add("password", "must be at most 72 bytes")
		return nil, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:            uuid.NewString(),
		Email:         in.Email,
		Name:          in.Name,
		PasswordHash:  hash,
		EmailVerified: true,
	}

	var token string
	err = s.users.Create(ctx, u, func() error {
		var err error
		token, err = s.tokens.Issue(u.ID, u.Email)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.FromContext(ctx).Info("user registered", "user_id", u.ID, "email", u.Email)
	return &AuthResult{Token: token, User: u.Public()}, nil
}

// Signin returns ErrInvalidCredentials both for an unknown email and for a
// wrong password.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user signed in", "user_id", u.ID, "email", u.Email)
	return &AuthResult{Token: token, User: u.Public()}, nil
}

var _ UserStore = (*repository.UserRepository)(nil)
