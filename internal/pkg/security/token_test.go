package security

import (
	"testing"

	"github.com/condutamedx/medx-backend/app/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(42, "doc@example.com", models.ROLE_ADMIN)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "doc@example.com" {
		t.Fatalf("Email = %q", claims.Email)
	}
	if claims.Role != models.ROLE_ADMIN {
		t.Fatalf("Role = %q, want admin", claims.Role)
	}
	if claims.Issuer != "condutamedx" {
		t.Fatalf("Issuer = %q", claims.Issuer)
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateToken(1, "a@b.c", models.ROLE_USER); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := ParseToken("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateToken(1, "a@b.c", models.ROLE_USER)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-two")
	if _, err := ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}
