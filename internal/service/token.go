package service

import (
	"errors"
	"fmt"
	"time"

	"todo_api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued bearer token.
const TokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256 bearer tokens. Nothing is stored
// server-side, so a token stays valid until it expires.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return NewTokenServiceWithClock(secret, time.Now)
}

func NewTokenServiceWithClock(secret string, now func() time.Time) *TokenService {
	return &TokenService{secret: []byte(secret), now: now}
}

// Issue signs a token for the subject that expires TokenTTL from now.
func (s *TokenService) Issue(subjectID, email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the identity the token binds.
// Expired tokens fail with ErrTokenExpired; everything else with ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return domain.Identity{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: unexpected claims type", ErrTokenInvalid)
	}

	// externally minted tokens may carry the subject as user_id or id
	subject := stringClaim(claims, "sub")
	if subject == "" {
		subject = stringClaim(claims, "user_id")
	}
	if subject == "" {
		subject = stringClaim(claims, "id")
	}
	if subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing user identifier", ErrTokenInvalid)
	}

	email := stringClaim(claims, "email")
	if email == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing email", ErrTokenInvalid)
	}

	return domain.Identity{ID: subject, Email: email}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
