package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/cankurt/chatcore/internal/app/models"
)

func testJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "chatcore.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 42, Name: "alice", Email: "alice@example.com"}

	accessToken, refreshToken, expiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Issuer != "chatcore.test" {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testJWTService(-time.Minute)
	user := &models.User{ID: 1, Email: "a@b.c"}

	accessToken, _, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := svc.ValidateToken(accessToken); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := testJWTService(time.Hour)
	accessToken, _, _, err := issuer.GenerateTokenPair(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	verifier := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	if _, err := verifier.ValidateToken(accessToken); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 1}

	_, first, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatal(err)
	}
	_, second, _, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("refresh tokens should be unique per issuance")
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractBearerToken: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("token = %q", token)
	}

	for _, header := range []string{"", "abc.def.ghi", "bearer abc", "Basic dXNlcg=="} {
		if _, err := ExtractBearerToken(header); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("header %q: expected ErrInvalidFormat, got %v", header, err)
		}
	}
}
