package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/inventura/internal/model"
)

var testSubject = Subject{UserID: 1, Username: "admin", DisplayName: "Administrator", Role: model.RoleAdmin}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, time.Hour, testSubject)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username 'admin', got %q", claims.Username)
	}
	if claims.DisplayName != "Administrator" {
		t.Errorf("expected display name 'Administrator', got %q", claims.DisplayName)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	a, _ := GenerateToken("s", time.Hour, testSubject)
	b, _ := GenerateToken("s", time.Hour, testSubject)

	ca, _ := ValidateToken("s", a)
	cb, _ := ValidateToken("s", b)
	if ca.ID == cb.ID {
		t.Error("expected distinct token IDs")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", time.Hour, testSubject)

	_, err := ValidateToken("secret2", token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken("s", token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken("s", token); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestTokenExpiry(t *testing.T) {
	token, _ := GenerateToken("test", 2*time.Hour, testSubject)
	claims, _ := ValidateToken("test", token)

	diff := time.Until(claims.ExpiresAt.Time) - 2*time.Hour
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}

func TestDefaultTTL(t *testing.T) {
	token, _ := GenerateToken("test", 0, testSubject)
	claims, _ := ValidateToken("test", token)

	diff := time.Until(claims.ExpiresAt.Time) - DefaultTokenTTL
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("expected default TTL, diff=%v", diff)
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != nil {
		t.Error("expected no identity on empty context")
	}

	id := &Identity{UserID: 7, Role: model.RoleUser}
	got := FromContext(WithIdentity(ctx, id))
	if got != id {
		t.Errorf("expected stored identity, got %+v", got)
	}
}
