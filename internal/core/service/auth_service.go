package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minutehire/auth-gateway/internal/api/metrics"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
	"github.com/minutehire/auth-gateway/internal/routing"
)

// OTP purposes accepted by ResendOTP.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// DemoConfig gates the demo login path.
type DemoConfig struct {
	Enabled bool
	// AccessKeyHash is a bcrypt hash; when set, callers must present the key.
	AccessKeyHash string
}

// AuthService turns credentials into sessions. It never returns a Go error
// to its callers: every outcome is an AuthResponse.
type AuthService struct {
	backend  ports.Backend
	otp      ports.OTPClient
	sessions ports.SessionStore
	oauth    *OAuth
	demo     DemoConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	backend ports.Backend,
	otp ports.OTPClient,
	sessions ports.SessionStore,
	oauth *OAuth,
	demo DemoConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		backend:  backend,
		otp:      otp,
		sessions: sessions,
		oauth:    oauth,
		demo:     demo,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// --- Credentials ---

// Login authenticates against the backend and persists the session. A
// verification-required answer is reported as its own outcome and leaves the
// session store untouched, as does any failure.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.record("login", invalid("email and password are required"))
	}

	auth, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return s.record("login", s.failure("login", err, email))
	}

	user, err := domain.UserFromPayload(auth.User)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("login: unusable user payload")
		return s.record("login", failed(http.StatusBadGateway, "unexpected response from server"))
	}
	return s.record("login", s.establish(ctx, sid, user, auth.Token, false))
}

// Signup registers the account and then sends the verification e-mail. A
// failed send does not fail the signup: the response stays successful and
// Error carries the advisory. Signup never creates a session.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) domain.AuthResponse {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return s.record("signup", invalid("email and password are required"))
	}
	if !domain.IsValidRole(in.Role) {
		return s.record("signup", invalid(domain.ErrInvalidRole.Error()))
	}

	reg, err := s.backend.Register(ctx, ports.RegisterInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: strings.TrimSpace(in.FullName),
		Role:     in.Role,
	})
	if err != nil {
		return s.record("signup", s.failure("signup", err, in.Email))
	}

	resp := domain.AuthResponse{
		Success:                   true,
		RequiresEmailVerification: true,
		Email:                     in.Email,
		Message:                   "Account created. Check your email for the verification code.",
		Status:                    http.StatusCreated,
	}
	if reg.User != nil {
		if u, err := domain.UserFromPayload(reg.User); err == nil {
			resp.User = u
		}
	}

	if _, err := s.otp.SendEmailVerification(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("signup: verification email not sent")
		resp.Error = "Account created, but the verification email could not be sent. Please request a new code."
		return s.record("signup", resp)
	}
	return s.record("signup", resp)
}

// DemoLogin fabricates a session for role without contacting the backend.
// It shares no code path with Login, so production credentials never reach it.
func (s *AuthService) DemoLogin(ctx context.Context, sid, role, accessKey string) domain.AuthResponse {
	if !s.demo.Enabled {
		return s.record("demo_login", failed(http.StatusForbidden, domain.ErrDemoDisabled.Error()))
	}
	if s.demo.AccessKeyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.demo.AccessKeyHash), []byte(accessKey)) != nil {
			return s.record("demo_login", failed(http.StatusForbidden, domain.ErrDemoForbidden.Error()))
		}
	}
	if !domain.IsValidRole(role) {
		return s.record("demo_login", invalid(domain.ErrInvalidRole.Error()))
	}
	account, ok := demoAccounts[domain.Role(role)]
	if !ok {
		return s.record("demo_login", invalid(domain.ErrDemoRoleUnavailable.Error()))
	}

	now := s.now()
	stamp := now.UnixMilli()
	user := &domain.User{
		ID:              fmt.Sprintf("demo-%s-%d", role, stamp),
		Email:           account.Email,
		Role:            domain.Role(role),
		FullName:        account.FullName,
		ProfileComplete: true,
		Profile:         domain.CloneProfile(account.Profile),
		CreatedAt:       now,
	}
	token := fmt.Sprintf("demo-token-%s-%d", role, stamp)

	resp := s.establish(ctx, sid, user, token, true)
	if resp.Success {
		metrics.DemoLoginsTotal.WithLabelValues(role).Inc()
		s.log.Info().Str("role", role).Msg("demo session created")
	}
	return s.record("demo_login", resp)
}

// --- One-time codes ---

func (s *AuthService) SendEmailVerification(ctx context.Context, email string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.record("send_verification", invalid("email is required"))
	}
	res, err := s.otp.SendEmailVerification(ctx, email)
	if err != nil {
		return s.record("send_verification", s.failure("send_verification", err, email))
	}
	return s.record("send_verification", otpSuccess(res, email, "Verification code sent."))
}

// VerifyEmail confirms the address. It does not sign the user in.
func (s *AuthService) VerifyEmail(ctx context.Context, email, otp string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(otp) == "" {
		return s.record("verify_email", invalid("email and otp are required"))
	}
	res, err := s.otp.VerifyEmail(ctx, email, strings.TrimSpace(otp))
	if err != nil {
		return s.record("verify_email", s.failure("verify_email", err, email))
	}
	return s.record("verify_email", otpSuccess(res, email, "Email verified."))
}

func (s *AuthService) ResendOTP(ctx context.Context, email, purpose string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.record("resend_otp", invalid("email is required"))
	}
	if purpose == "" {
		purpose = PurposeEmailVerification
	}
	if purpose != PurposeEmailVerification && purpose != PurposePasswordReset {
		return s.record("resend_otp", invalid("unknown otp purpose"))
	}
	res, err := s.otp.Resend(ctx, email, purpose)
	if err != nil {
		return s.record("resend_otp", s.failure("resend_otp", err, email))
	}
	return s.record("resend_otp", otpSuccess(res, email, "A new code has been sent."))
}

// SignInWithOTP sends a login code to email.
func (s *AuthService) SignInWithOTP(ctx context.Context, email string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.record("otp_signin", invalid("email is required"))
	}
	res, err := s.otp.SendEmailVerification(ctx, email)
	if err != nil {
		return s.record("otp_signin", s.failure("otp_signin", err, email))
	}
	return s.record("otp_signin", otpSuccess(res, email, "Login code sent."))
}

// VerifyOTP checks a login code. When the backend answers with a user and
// token the session is persisted; otherwise the address is merely verified.
func (s *AuthService) VerifyOTP(ctx context.Context, sid, email, otp string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(otp) == "" {
		return s.record("verify_otp", invalid("email and otp are required"))
	}
	res, err := s.otp.VerifyEmail(ctx, email, strings.TrimSpace(otp))
	if err != nil {
		return s.record("verify_otp", s.failure("verify_otp", err, email))
	}
	if res.Token == "" || res.User == nil {
		return s.record("verify_otp", otpSuccess(res, email, "Email verified. Please sign in."))
	}
	user, err := domain.UserFromPayload(res.User)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("verify otp: unusable user payload")
		return s.record("verify_otp", failed(http.StatusBadGateway, "unexpected response from server"))
	}
	return s.record("verify_otp", s.establish(ctx, sid, user, res.Token, false))
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.record("forgot_password", invalid("email is required"))
	}
	res, err := s.otp.SendPasswordReset(ctx, email)
	if err != nil {
		return s.record("forgot_password", s.failure("forgot_password", err, email))
	}
	return s.record("forgot_password", otpSuccess(res, email, "Password reset code sent."))
}

func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) domain.AuthResponse {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(otp) == "" || newPassword == "" {
		return s.record("reset_password", invalid("email, otp and new password are required"))
	}
	res, err := s.otp.ResetPassword(ctx, email, strings.TrimSpace(otp), newPassword)
	if err != nil {
		return s.record("reset_password", s.failure("reset_password", err, email))
	}
	return s.record("reset_password", otpSuccess(res, email, "Password updated. Please sign in."))
}

// --- Session lifecycle ---

// protectedProfileKeys are owned by the backend or the dashboard resolver and
// are dropped from client profile patches.
var protectedProfileKeys = []string{
	"id", "_id", "email", "role",
	"dashboard_id", "dashboardId",
	"profile_complete",
}

// UpdateProfile applies patch through the backend and refreshes the stored
// session. Identity and dashboard fields cannot be changed this way.
func (s *AuthService) UpdateProfile(ctx context.Context, sid string, patch map[string]any) domain.AuthResponse {
	sess, err := s.LoadSession(ctx, sid)
	if err != nil {
		return s.record("update_profile", s.sessionFailure(err))
	}
	for _, k := range protectedProfileKeys {
		delete(patch, k)
	}
	if len(patch) == 0 {
		return s.record("update_profile", invalid("nothing to update"))
	}

	updated := patch
	if !sess.Demo {
		fields, err := s.backend.UpdateProfile(ctx, sess.Token, patch)
		if err != nil {
			return s.record("update_profile", s.failure("update_profile", err, sess.User.Email))
		}
		if len(fields) > 0 {
			updated = fields
		}
	}
	if ctx.Err() != nil {
		return s.record("update_profile", cancelled())
	}

	sess.User.MergePayload(updated)
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sid, sess); err != nil {
		s.log.Error().Err(err).Msg("update profile: save session")
		return s.record("update_profile", failed(http.StatusInternalServerError, "could not save session"))
	}
	return s.record("update_profile", domain.AuthResponse{
		Success: true,
		User:    sess.User,
		Message: "Profile updated.",
		Status:  http.StatusOK,
	})
}

// Logout tells the backend (best effort) and always clears the session.
func (s *AuthService) Logout(ctx context.Context, sid string) domain.AuthResponse {
	sess, err := s.LoadSession(ctx, sid)
	if err == nil && !sess.Demo && sess.Token != "" {
		if err := s.backend.Logout(ctx, sess.Token); err != nil {
			s.log.Warn().Err(err).Msg("logout: backend logout failed, clearing session anyway")
		}
	}
	if err := s.ClearSession(ctx, sid); err != nil {
		s.log.Error().Err(err).Msg("logout: clear session")
		return s.record("logout", failed(http.StatusInternalServerError, "could not clear session"))
	}
	return s.record("logout", domain.AuthResponse{Success: true, Message: "Signed out.", Status: http.StatusOK})
}

// --- OAuth ---

// OAuthURL returns the provider authorize URL.
func (s *AuthService) OAuthURL(provider string) (string, error) {
	return s.oauth.AuthorizeURL(provider)
}

// CompleteOAuth validates the callback fragment once, resolves the user the
// access token belongs to and persists the session.
func (s *AuthService) CompleteOAuth(ctx context.Context, sid, fragment string) domain.AuthResponse {
	cb, err := ParseFragment(fragment)
	if err != nil {
		return s.record("oauth_callback", invalid(err.Error()))
	}
	payload, err := s.backend.Session(ctx, cb.AccessToken)
	if err != nil {
		return s.record("oauth_callback", s.failure("oauth_callback", err, ""))
	}
	user, err := domain.UserFromPayload(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("oauth callback: unusable user payload")
		return s.record("oauth_callback", failed(http.StatusBadGateway, "unexpected response from server"))
	}
	return s.record("oauth_callback", s.establish(ctx, sid, user, cb.AccessToken, false))
}

// --- Session store ---

func (s *AuthService) SaveSession(ctx context.Context, sid string, sess *domain.Session) error {
	return s.sessions.Save(ctx, sid, sess)
}

func (s *AuthService) LoadSession(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Load(ctx, sid)
}

func (s *AuthService) ClearSession(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.sessions.Clear(ctx, sid)
}

// --- Routing ---

// DashboardRoute returns the landing path for role ("/" for unknown roles).
func (s *AuthService) DashboardRoute(role string) string {
	return routing.DashboardRoute(role)
}

// IsValidRole is the gate for any role string from a URL or user input.
func (s *AuthService) IsValidRole(role string) bool {
	return domain.IsValidRole(role)
}

// --- helpers ---

// establish persists a new session unless ctx was cancelled while the
// upstream call was in flight, in which case the result is discarded.
func (s *AuthService) establish(ctx context.Context, sid string, user *domain.User, token string, demo bool) domain.AuthResponse {
	if ctx.Err() != nil {
		return cancelled()
	}
	if sid == "" {
		return failed(http.StatusInternalServerError, "missing session id")
	}
	now := s.now()
	sess := &domain.Session{User: user, Token: token, Demo: demo, CreatedAt: now, UpdatedAt: now}
	if err := s.sessions.Save(ctx, sid, sess); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("save session")
		return failed(http.StatusInternalServerError, "could not save session")
	}
	return domain.AuthResponse{Success: true, User: user, Token: token, Status: http.StatusOK}
}

// failure converts an upstream error into the uniform failure shape.
func (s *AuthService) failure(op string, err error, email string) domain.AuthResponse {
	if errors.Is(err, context.Canceled) {
		return cancelled()
	}

	var ae *domain.UpstreamError
	if errors.As(err, &ae) {
		if ae.RequiresEmailVerification {
			if ae.Email != "" {
				email = ae.Email
			}
			return domain.AuthResponse{
				RequiresEmailVerification: true,
				Email:                     email,
				Message:                   ae.Message,
				Status:                    http.StatusForbidden,
			}
		}
		status := ae.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return failed(status, ae.Message)
	}

	if errors.Is(err, domain.ErrBackendUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn().Err(err).Str("op", op).Msg("backend unavailable")
		return failed(http.StatusBadGateway, "Unable to reach MinuteHire. Please try again.")
	}

	s.log.Error().Err(err).Str("op", op).Msg("auth operation failed")
	return failed(http.StatusBadGateway, "Something went wrong. Please try again.")
}

func (s *AuthService) sessionFailure(err error) domain.AuthResponse {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return failed(http.StatusUnauthorized, "not authenticated")
	}
	s.log.Error().Err(err).Msg("load session")
	return failed(http.StatusInternalServerError, "could not load session")
}

func (s *AuthService) record(op string, resp domain.AuthResponse) domain.AuthResponse {
	result := "success"
	switch {
	case resp.RequiresEmailVerification && !resp.Success:
		result = "verification_required"
	case !resp.Success:
		result = "failure"
	case resp.Error != "":
		result = "warning"
	}
	metrics.AuthOperationsTotal.WithLabelValues(op, result).Inc()
	return resp
}

func otpSuccess(res *ports.OTPResult, email, fallback string) domain.AuthResponse {
	msg := fallback
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	return domain.AuthResponse{Success: true, Email: email, Message: msg, Status: http.StatusOK}
}

func failed(status int, msg string) domain.AuthResponse {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return domain.AuthResponse{Error: msg, Status: status}
}

func invalid(msg string) domain.AuthResponse {
	return failed(http.StatusBadRequest, msg)
}

func cancelled() domain.AuthResponse {
	return failed(http.StatusRequestTimeout, "request cancelled")
}
