package service

import (
	"fmt"
	"strings"

	"todo_api/internal/domain"
)

const bearerPrefix = "Bearer "

// TokenVerifier is the part of TokenService the guard depends on.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Guard authenticates a request and binds it to the user named in its path.
type Guard struct {
	tokens TokenVerifier
}

func NewGuard(tokens TokenVerifier) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate checks the Authorization header value and requires the token
// subject to equal pathUserID. Token failures and identity mismatches all
// match ErrUnauthorized so callers cannot tell a foreign id from a bad token.
func (g *Guard) Authenticate(authHeader, pathUserID string) (domain.Identity, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return domain.Identity{}, ErrMissingToken
	}
	raw := authHeader[len(bearerPrefix):]
	if raw == "" {
		return domain.Identity{}, ErrMissingToken
	}

	id, err := g.tokens.Verify(raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if id.ID != pathUserID {
		return domain.Identity{}, &MismatchError{TokenUserID: id.ID, PathUserID: pathUserID}
	}
	return id, nil
}

// MismatchError reports a valid token presented for another user's path.
type MismatchError struct {
	TokenUserID string
	PathUserID  string
}

func (e *MismatchError) Error() string {
	return "unauthorized: token subject does not match path user"
}

func (e *MismatchError) Unwrap() error { return ErrUnauthorized }
