package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/infrastructure/db/memory"
)

func newCookie() *SessionCookie {
	return NewSessionCookie("secret", time.Hour, false)
}

func TestSession_ValidCookie(t *testing.T) {
	e := echo.New()
	sc := newCookie()

	// Issue a cookie on one request and replay it on the next.
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := sc.Issue(c, "sid-1"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected %s cookie, got %+v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	called := false
	handler := sc.Session()(func(c echo.Context) error {
		called = true
		if c.Get(ContextSID) != "sid-1" {
			t.Fatalf("sid not set, got %v", c.Get(ContextSID))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie should not be reissued")
	}
}

func TestSession_BearerHeader(t *testing.T) {
	e := echo.New()
	sc := newCookie()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "sid-bearer",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := sc.Session()(func(c echo.Context) error {
		if c.Get(ContextSID) != "sid-bearer" {
			t.Fatalf("sid not set from bearer header")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_MissingCookieIssuesNewSID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newCookie().Session()(func(c echo.Context) error {
		sid, _ := c.Get(ContextSID).(string)
		if sid == "" {
			t.Fatalf("expected fresh sid")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a new session cookie")
	}
}

func TestSession_ForgedCookieReplaced(t *testing.T) {
	e := echo.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "victim"})
	forged, _ := token.SignedString([]byte("other-secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: forged})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := newCookie().Session()(func(c echo.Context) error {
		if c.Get(ContextSID) == "victim" {
			t.Fatalf("forged session id accepted")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_ExpiredCookieReplaced(t *testing.T) {
	e := echo.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "old",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, _ := token.SignedString([]byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: signed})
	c := e.NewContext(req, httptest.NewRecorder())

	handler := newCookie().Session()(func(c echo.Context) error {
		if c.Get(ContextSID) == "old" {
			t.Fatalf("expired session id accepted")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireSession_Loaded(t *testing.T) {
	e := echo.New()
	store := memory.NewSessionStore()
	_ = store.Save(context.Background(), "sid-1", &domain.Session{
		User:  &domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleAdmin},
		Token: "tok",
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextSID, "sid-1")

	handler := RequireSession(store)(func(c echo.Context) error {
		if c.Get(ContextRole) != "admin" {
			t.Fatalf("role not set")
		}
		if c.Get(ContextUserID) != "u1" {
			t.Fatalf("user id not set")
		}
		if _, ok := c.Get(ContextSession).(*domain.Session); !ok {
			t.Fatalf("session not set")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireSession_Missing(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(ContextSID, "unknown")

	handler := RequireSession(memory.NewSessionStore())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRejectDemo(t *testing.T) {
	cases := []struct {
		name    string
		sess    *domain.Session
		allowed bool
	}{
		{"real session", &domain.Session{User: &domain.User{ID: "u1", Role: domain.RoleAdmin}, Token: "tok"}, true},
		{"demo session", &domain.Session{User: &domain.User{ID: "demo-admin-1", Role: domain.RoleAdmin}, Demo: true}, false},
		{"no session", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tc.sess != nil {
				c.Set(ContextSession, tc.sess)
			}

			called := false
			err := RejectDemo()(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			if called != tc.allowed {
				t.Fatalf("next called = %v, want %v", called, tc.allowed)
			}
			if !tc.allowed && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}
