package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
	"github.com/cankurt/chatcore/internal/pkg/auth"
)

func newAuthFixture() (AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "chatcore.test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, users, tokens := newAuthFixture()

	response, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "  Alice  ",
		Email:    "Alice@Example.COM ",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatal("user should be stored under the lowercased email")
	}
	if stored.Name != "Alice" {
		t.Errorf("name = %q, want trimmed", stored.Name)
	}
	if stored.Password == "supersecret" {
		t.Error("password must be stored hashed")
	}
	if !auth.CheckPassword(stored.Password, "supersecret") {
		t.Error("stored hash should verify against the original password")
	}

	if response.Token.AccessToken == "" || response.Token.RefreshToken == "" {
		t.Error("registration should issue a token pair")
	}
	if _, ok := tokens.tokens[response.Token.RefreshToken]; !ok {
		t.Error("refresh token should be persisted")
	}
	if response.User.Email != "alice@example.com" {
		t.Errorf("response email = %q", response.User.Email)
	}
}

func TestRegisterRejectsBlankName(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "   ",
		Email:    "a@b.c",
		Password: "supersecret",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	req := &dto.RegisterRequest{Name: "Alice", Email: "a@b.c", Password: "supersecret"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("expected duplicate email error, got %v", err)
	}
}

func TestLoginChecksCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "a@b.c", Password: "supersecret",
	}); err != nil {
		t.Fatal(err)
	}

	// Case-insensitive email on login
	response, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "A@B.C", Password: "supersecret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if response.Token.AccessToken == "" {
		t.Error("login should issue an access token")
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a@b.c", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected invalid credentials, got %v", err)
	}
	// Unknown accounts produce the same error as bad passwords
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@b.c", Password: "supersecret"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown account: expected invalid credentials, got %v", err)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "a@b.c", Password: "supersecret",
	})
	if err != nil {
		t.Fatal(err)
	}
	oldToken := registered.Token.RefreshToken

	refreshed, err := svc.RefreshToken(context.Background(), oldToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.RefreshToken == oldToken {
		t.Error("refresh should issue a new refresh token")
	}
	if !tokens.tokens[oldToken].Revoked {
		t.Error("the old refresh token should be revoked")
	}

	// The revoked token cannot be replayed
	if _, err := svc.RefreshToken(context.Background(), oldToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("expected token revoked error, got %v", err)
	}
}

func TestRefreshTokenReuseRevokesAllSessions(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "a@b.c", Password: "supersecret",
	})
	if err != nil {
		t.Fatal(err)
	}
	oldToken := registered.Token.RefreshToken

	refreshed, err := svc.RefreshToken(context.Background(), oldToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}

	// Replaying the rotated-out token revokes every token of the user,
	// the freshly issued one included
	if _, err := svc.RefreshToken(context.Background(), oldToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("expected token revoked error, got %v", err)
	}
	if !tokens.tokens[refreshed.RefreshToken].Revoked {
		t.Error("reuse should revoke the user's current refresh token as well")
	}
	if _, err := svc.RefreshToken(context.Background(), refreshed.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("the current token should be unusable after reuse, got %v", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	if err := tokens.Create(context.Background(), 1, "stale-token", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RefreshToken(context.Background(), "stale-token"); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("expected token expired error, got %v", err)
	}
}

func TestLogoutPrunesExpiredTokens(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "a@b.c", Password: "supersecret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := tokens.Create(context.Background(), 1, "stale-token", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), registered.Token.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := tokens.tokens["stale-token"]; ok {
		t.Error("logout should prune tokens past their expiry")
	}
	if !tokens.tokens[registered.Token.RefreshToken].Revoked {
		t.Error("logout should still revoke the presented token")
	}
}

func TestRefreshTokenUnknown(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.RefreshToken(context.Background(), "no-such-token"); !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Errorf("expected token not found, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Alice", Email: "a@b.c", Password: "supersecret",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(context.Background(), registered.Token.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !tokens.tokens[registered.Token.RefreshToken].Revoked {
		t.Error("logout should revoke the refresh token")
	}
}
