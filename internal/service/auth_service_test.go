package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"todo_api/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*AuthService, *testutil.UserStore, *TokenService) {
	t.Helper()
	users := testutil.NewUserStore()
	tokens := NewTokenService(testSecret)
	return NewAuthService(users, tokens, NewBcryptHasher(bcrypt.MinCost)), users, tokens
}

func TestSignupThenSignin(t *testing.T) {
	auth, _, tokens := newAuth(t)
	ctx := context.Background()

	up, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "longenough1", Name: "A"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if up.User.ID == "" || up.User.Email != "a@x.com" || up.User.Name != "A" {
		t.Fatalf("unexpected user %+v", up.User)
	}

	in, err := auth.Signin(ctx, "a@x.com", "longenough1")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	id, err := tokens.Verify(in.Token)
	if err != nil {
		t.Fatalf("verify signin token: %v", err)
	}
	if id.ID != up.User.ID {
		t.Fatalf("token subject %q, want %q", id.ID, up.User.ID)
	}
	if in.User != up.User {
		t.Fatalf("signin user %+v, signup user %+v", in.User, up.User)
	}
}

func TestSignup_StoresHashNotPassword(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "longenough1", Name: "A"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, err := users.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.PasswordHash == "longenough1" || !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", u.PasswordHash)
	}
	if !u.EmailVerified {
		t.Fatalf("expected email_verified to be set")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "longenough1", Name: "A"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	before := users.Len()

	_, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "different-pass", Name: "B"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if users.Len() != before {
		t.Fatalf("duplicate signup mutated storage")
	}

	// duplicate check wins over the password rule
	_, err = auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "short", Name: "B"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for duplicate with weak password, got %v", err)
	}
}

func TestSignup_EmailMatchIsCaseSensitive(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "longenough1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := auth.Signup(ctx, SignupInput{Email: "A@x.com", Password: "longenough1"}); err != nil {
		t.Fatalf("expected differently cased email to register, got %v", err)
	}
}

func TestSignup_WeakPassword(t *testing.T) {
	auth, users, _ := newAuth(t)

	for _, pw := range []string{"", "1234567", "ñññññññ"} {
		_, err := auth.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: pw})
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q: expected ErrWeakPassword, got %v", pw, err)
		}
	}
	if users.Len() != 0 {
		t.Fatalf("weak password signup stored a user")
	}
}

func TestSignup_PasswordTooLong(t *testing.T) {
	auth, _, _ := newAuth(t)

	_, err := auth.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: strings.Repeat("p", 73)})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
}

func TestSignup_RollsBackWhenStoreFails(t *testing.T) {
	auth, users, _ := newAuth(t)
	users.CreateErr = errors.New("connection reset")

	_, err := auth.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "longenough1"})
	if err == nil || errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected internal error, got %v", err)
	}
	users.CreateErr = nil
	if users.Len() != 0 {
		t.Fatalf("failed signup left a user row")
	}
}

func TestSignin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, SignupInput{Email: "a@x.com", Password: "longenough1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, errWrong := auth.Signin(ctx, "a@x.com", "wrong-password")
	_, errUnknown := auth.Signin(ctx, "nobody@x.com", "longenough1")

	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("messages differ: %q vs %q", errWrong, errUnknown)
	}
}

func TestSignin_StoreFailureIsNotCredentialsError(t *testing.T) {
	auth, users, _ := newAuth(t)
	users.GetErr = errors.New("pool closed")

	_, err := auth.Signin(context.Background(), "a@x.com", "longenough1")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
