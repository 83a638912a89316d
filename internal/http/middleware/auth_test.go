package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/user"
	"github.com/mike2377/gestion-stage-sub000/internal/security"
)

func TestAuthenticate(t *testing.T) {
	provider := security.NewJWTProvider("test-secret")
	issued := user.Actor{ID: common.NewUUID(), Role: user.RoleStudent}
	token, _, err := provider.Generate(issued, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var seen user.Actor
	handler := NewAuthMiddleware(provider).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/stages", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if seen.ID != issued.ID || seen.Role != issued.Role {
		t.Fatalf("actor in context = %+v", seen)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	provider := security.NewJWTProvider("test-secret")
	handler := NewAuthMiddleware(provider).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not.a.token",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/stages", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	guarded := RequireRole(user.RoleTeacher, user.RoleResponsible)(next)

	serve := func(actor *user.Actor) int {
		req := httptest.NewRequest(http.MethodPost, "/stages", nil)
		if actor != nil {
			req = req.WithContext(context.WithValue(req.Context(), ContextActorKey, *actor))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := serve(nil); got != http.StatusUnauthorized {
		t.Fatalf("no actor: status = %d, want 401", got)
	}
	if got := serve(&user.Actor{ID: common.NewUUID(), Role: user.RoleStudent}); got != http.StatusForbidden {
		t.Fatalf("student: status = %d, want 403", got)
	}
	if got := serve(&user.Actor{ID: common.NewUUID(), Role: user.RoleTeacher}); got != http.StatusOK {
		t.Fatalf("teacher: status = %d, want 200", got)
	}
	if got := serve(&user.Actor{ID: common.NewUUID(), Role: user.RoleAdmin}); got != http.StatusOK {
		t.Fatalf("admin bypass: status = %d, want 200", got)
	}
}
