package service

import (
	"context"
	"sync"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu    sync.Mutex
	calls []string

	loginFn         func(ctx context.Context, email, password string) (*ports.BackendAuth, error)
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.BackendAuth, error)
	logoutErr       error
	sessionFn       func(ctx context.Context, token string) (map[string]any, error)
	profileFn       func(ctx context.Context, token string) (map[string]any, error)
	updateProfileFn func(ctx context.Context, token string, patch map[string]any) (map[string]any, error)
}

func (b *stubBackend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *stubBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (b *stubBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *stubBackend) Login(ctx context.Context, email, password string) (*ports.BackendAuth, error) {
	b.record("login")
	return b.loginFn(ctx, email, password)
}

func (b *stubBackend) Register(ctx context.Context, in ports.RegisterInput) (*ports.BackendAuth, error) {
	b.record("register")
	return b.registerFn(ctx, in)
}

func (b *stubBackend) Logout(_ context.Context, _ string) error {
	b.record("logout")
	return b.logoutErr
}

func (b *stubBackend) Session(ctx context.Context, token string) (map[string]any, error) {
	b.record("session")
	return b.sessionFn(ctx, token)
}

func (b *stubBackend) Profile(ctx context.Context, token string) (map[string]any, error) {
	b.record("profile")
	if b.profileFn == nil {
		return map[string]any{}, nil
	}
	return b.profileFn(ctx, token)
}

func (b *stubBackend) UpdateProfile(ctx context.Context, token string, patch map[string]any) (map[string]any, error) {
	b.record("update_profile")
	return b.updateProfileFn(ctx, token, patch)
}

type stubOTP struct {
	sendErr   error
	verifyFn  func(email, otp string) (*ports.OTPResult, error)
	resendErr error
	resetErr  error
	sent      []string
	purposes  []string
}

func (o *stubOTP) SendEmailVerification(_ context.Context, email string) (*ports.OTPResult, error) {
	if o.sendErr != nil {
		return nil, o.sendErr
	}
	o.sent = append(o.sent, email)
	return &ports.OTPResult{Success: true, Message: "OTP sent"}, nil
}

func (o *stubOTP) VerifyEmail(_ context.Context, email, otp string) (*ports.OTPResult, error) {
	if o.verifyFn == nil {
		return &ports.OTPResult{Success: true}, nil
	}
	return o.verifyFn(email, otp)
}

func (o *stubOTP) Resend(_ context.Context, email, purpose string) (*ports.OTPResult, error) {
	if o.resendErr != nil {
		return nil, o.resendErr
	}
	o.purposes = append(o.purposes, purpose)
	return &ports.OTPResult{Success: true}, nil
}

func (o *stubOTP) SendPasswordReset(_ context.Context, email string) (*ports.OTPResult, error) {
	o.sent = append(o.sent, email)
	return &ports.OTPResult{Success: true}, nil
}

func (o *stubOTP) ResetPassword(_ context.Context, _, _, _ string) (*ports.OTPResult, error) {
	if o.resetErr != nil {
		return nil, o.resetErr
	}
	return &ports.OTPResult{Success: true, Message: "Password reset"}, nil
}

type stubStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saves    int
	clears   int
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubStore) Save(_ context.Context, sid string, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.sessions[sid] = sess.Clone()
	return nil
}

func (s *stubStore) Load(_ context.Context, sid string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (s *stubStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	delete(s.sessions, sid)
	return nil
}

type stubDashboardAPI struct {
	mu       sync.Mutex
	findFn   func(userID string) (string, error)
	createFn func(userID string) (string, error)
	finds    int
	creates  int

	// cancelled counts calls whose context had ended by the time they returned.
	cancelled int
}

func (d *stubDashboardAPI) FindDashboard(ctx context.Context, _, userID string) (string, error) {
	d.mu.Lock()
	d.finds++
	d.mu.Unlock()
	id, err := d.findFn(userID)
	if ctx.Err() != nil {
		d.mu.Lock()
		d.cancelled++
		d.mu.Unlock()
	}
	return id, err
}

func (d *stubDashboardAPI) findCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finds
}

func (d *stubDashboardAPI) CreateDashboard(_ context.Context, _, userID string) (string, error) {
	d.mu.Lock()
	d.creates++
	d.mu.Unlock()
	return d.createFn(userID)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func userPayload(id, role string) map[string]any {
	return map[string]any{
		"id":        id,
		"email":     id + "@example.com",
		"role":      role,
		"full_name": "Test " + role,
	}
}
