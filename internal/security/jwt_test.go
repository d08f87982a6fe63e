package security

import (
	"testing"
	"time"

	"internhub/internal/common"
	"internhub/internal/domain/user"
)

func TestGenerateAndParse(t *testing.T) {
	provider := NewJWTProvider("test-secret")

	token, expiresAt, err := provider.Generate("42", user.RoleMentor, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(expiresAt); until < 55*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "42" || claims.Role != "mentor" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate("42", user.RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTProvider("secret-b").Parse(token); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate("42", user.RoleStudent, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := provider.Parse(token); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := provider.Parse(token); !common.Is(err, common.CodeUnauthorized) {
			t.Fatalf("token %q: expected unauthorized, got %v", token, err)
		}
	}
}
