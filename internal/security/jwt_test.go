package security

import (
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
)

func TestGenerateAndParse(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	issued := user.Actor{ID: common.NewUUID(), Role: user.RoleTeacher, OrganizationID: common.NewUUID()}

	token, expiresAt, err := provider.Generate(issued, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiry must be in the future")
	}

	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	actor, err := claims.Actor()
	if err != nil {
		t.Fatalf("actor: %v", err)
	}
	if actor.ID != issued.ID || actor.Role != issued.Role || actor.OrganizationID != issued.OrganizationID {
		t.Fatalf("round trip changed the actor: %+v", actor)
	}
}

func TestParseExpired(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate(user.Actor{ID: common.NewUUID(), Role: user.RoleStudent}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, err = provider.Parse(token)
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate(user.Actor{ID: common.NewUUID(), Role: user.RoleStudent}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, err = NewJWTProvider("secret-b").Parse(token)
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for a foreign token, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	_, err := NewJWTProvider("test-secret").Parse("not.a.token")
	if !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
