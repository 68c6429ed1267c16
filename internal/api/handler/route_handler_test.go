package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/routing"
)

func TestRouteHandler_Dashboard(t *testing.T) {
	e := newEcho()
	h := NewRouteHandler(factory(&stubAuth{}, nil))

	tests := []struct {
		role  string
		valid bool
		path  string
	}{
		{"recruiter", true, "/recruiter/hrms"},
		{"hr_admin", true, "/hr-admin/dashboard"},
		{"Student", false, "/"},
		{"unknown", false, "/"},
	}
	for _, tt := range tests {
		c, rec := newCtx(e, http.MethodGet, "/routes/dashboard/"+tt.role, "")
		c.SetParamNames("role")
		c.SetParamValues(tt.role)
		if err := h.Dashboard(c); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.role, err)
		}
		var got dashboardResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if rec.Code != http.StatusOK || got.Valid != tt.valid || got.Path != tt.path {
			t.Fatalf("%s: unexpected answer %d %+v", tt.role, rec.Code, got)
		}
	}
}

func TestRouteHandler_Resolve_RequiresPath(t *testing.T) {
	e := newEcho()
	h := NewRouteHandler(factory(&stubAuth{}, nil))

	c, _ := newCtx(e, http.MethodGet, "/routes/resolve", "")
	err := h.Resolve(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRouteHandler_Resolve_WrongRoleRedirects(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{snap: domain.Snapshot{
		State:           domain.StateAuthenticated,
		IsAuthenticated: true,
		User:            &domain.User{ID: "s1", Role: domain.RoleStudent},
	}}
	h := NewRouteHandler(factory(auth, nil))

	c, rec := newCtx(e, http.MethodGet, "/routes/resolve?path=/recruiter/jobs/42/applicants", "")
	if err := h.Resolve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got resolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Route.Page != "RecruiterApplicants" || got.Params["id"] != "42" {
		t.Fatalf("unexpected route %+v %v", got.Route, got.Params)
	}
	if got.Decision.Action != routing.ActionRedirect || got.Decision.To != "/student/dashboard" {
		t.Fatalf("unexpected decision %+v", got.Decision)
	}
}

func TestRouteHandler_Resolve_AnonymousToLogin(t *testing.T) {
	e := newEcho()
	h := NewRouteHandler(factory(&stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}}, nil))

	c, rec := newCtx(e, http.MethodGet, "/routes/resolve?path=/settings", "")
	_ = h.Resolve(c)
	var got resolveResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Decision.Action != routing.ActionRedirect || got.Decision.To != routing.LoginPath {
		t.Fatalf("unexpected decision %+v", got.Decision)
	}
}

func TestRouteHandler_Resolve_ForwardsOAuthFragment(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{}
	h := NewRouteHandler(factory(auth, nil))

	c, rec := newCtx(e, http.MethodGet, "/routes/resolve?path=%2Flogin%23access_token%3Dat", "")
	if err := h.Resolve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got resolveResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Decision.To != "/auth/callback#access_token=at" {
		t.Fatalf("expected forward to callback, got %+v", got.Decision)
	}
	if auth.lastOp != "" {
		t.Fatal("session must not be initialised for a callback forward")
	}
}
