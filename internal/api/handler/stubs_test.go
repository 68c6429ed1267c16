package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/api/middleware"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubAuth answers every operation with resp and records what it was asked.
type stubAuth struct {
	resp     domain.AuthResponse
	snap     domain.Snapshot
	oauthErr error

	lastEmail  string
	lastSignup ports.SignupInput
	lastRole   string
	lastKey    string
	lastPatch  map[string]any
	lastFrag   string
	lastOp     string
}

func (s *stubAuth) op(name string) domain.AuthResponse {
	s.lastOp = name
	return s.resp
}

func (s *stubAuth) Init(context.Context) domain.Snapshot { s.lastOp = "init"; return s.snap }
func (s *stubAuth) Snapshot() domain.Snapshot             { return s.snap }

func (s *stubAuth) Login(_ context.Context, email, _ string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("login")
}

func (s *stubAuth) Signup(_ context.Context, in ports.SignupInput) domain.AuthResponse {
	s.lastSignup = in
	return s.op("signup")
}

func (s *stubAuth) DemoLogin(_ context.Context, role, key string) domain.AuthResponse {
	s.lastRole, s.lastKey = role, key
	return s.op("demo")
}

func (s *stubAuth) SignInWithOTP(_ context.Context, email string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("otp_send")
}

func (s *stubAuth) VerifyOTP(_ context.Context, email, _ string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("otp_verify")
}

func (s *stubAuth) SendEmailVerification(_ context.Context, email string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("send_verification")
}

func (s *stubAuth) VerifyEmail(_ context.Context, email, _ string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("verify_email")
}

func (s *stubAuth) ResendOTP(_ context.Context, email, _ string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("resend")
}

func (s *stubAuth) ForgotPassword(_ context.Context, email string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("forgot")
}

func (s *stubAuth) ResetPassword(_ context.Context, email, _, _ string) domain.AuthResponse {
	s.lastEmail = email
	return s.op("reset")
}

func (s *stubAuth) UpdateProfile(_ context.Context, patch map[string]any) domain.AuthResponse {
	s.lastPatch = patch
	return s.op("update_profile")
}

func (s *stubAuth) Logout(context.Context) domain.AuthResponse { return s.op("logout") }

func (s *stubAuth) SignInWithGoogle() (string, error) {
	return "https://auth.test/authorize?provider=google", s.oauthErr
}

func (s *stubAuth) SignInWithLinkedIn() (string, error) {
	return "https://auth.test/authorize?provider=linkedin_oidc", s.oauthErr
}

func (s *stubAuth) CompleteOAuth(_ context.Context, fragment string) domain.AuthResponse {
	s.lastFrag = fragment
	return s.op("oauth")
}

// factory returns a factory that hands out auth and records requested sids.
func factory(auth *stubAuth, sids *[]string) ports.AuthContextFactory {
	return func(sid string) ports.AuthContext {
		if sids != nil {
			*sids = append(*sids, sid)
		}
		return auth
	}
}

type stubCookies struct {
	issued  []string
	expired int
}

func (s *stubCookies) Issue(_ echo.Context, sid string) error {
	s.issued = append(s.issued, sid)
	return nil
}

func (s *stubCookies) Expire(echo.Context) { s.expired++ }

type stubSessions struct {
	cleared []string
}

func (s *stubSessions) Clear(_ context.Context, sid string) error {
	s.cleared = append(s.cleared, sid)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newCtx builds a request context with the session middleware's sid already
// resolved.
func newCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSID, "sid-current")
	return c, rec
}
