package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
	"github.com/minutehire/auth-gateway/pkg/logger"
)

// DemoKeyHeader carries the demo access key.
const DemoKeyHeader = "X-Demo-Key"

// SessionIssuer sets and removes the session cookie.
type SessionIssuer interface {
	Issue(c echo.Context, sid string) error
	Expire(c echo.Context)
}

// SessionClearer drops a stored session.
type SessionClearer interface {
	Clear(ctx context.Context, sid string) error
}

// AuthHandler exposes the auth context over HTTP. Every auth endpoint answers
// with an AuthResponse body; the status code reflects the outcome.
type AuthHandler struct {
	contexts ports.AuthContextFactory
	cookies  SessionIssuer
	sessions SessionClearer
}

func NewAuthHandler(contexts ports.AuthContextFactory, cookies SessionIssuer, sessions SessionClearer) *AuthHandler {
	return &AuthHandler{contexts: contexts, cookies: cookies, sessions: sessions}
}

// Login authenticates with e-mail and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Failure      401   {object}  domain.AuthResponse
// @Failure      403   {object}  domain.AuthResponse  "Email verification required"
// @Failure      502   {object}  domain.AuthResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	return h.signIn(c, func(a ports.AuthContext) domain.AuthResponse {
		return a.Login(c.Request().Context(), req.Email, req.Password)
	})
}

// Signup registers an account and sends the verification e-mail. It never
// signs the user in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Failure      409   {object}  domain.AuthResponse
// @Failure      502   {object}  domain.AuthResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	}))
}

// DemoLogin signs in as the fixed demo account of a role.
//
// @Summary      Demo login
// @Tags         auth
// @Produce      json
// @Param        role        path      string  true   "Role"
// @Param        X-Demo-Key  header    string  false  "Demo access key"
// @Success      200         {object}  domain.AuthResponse
// @Failure      400         {object}  domain.AuthResponse
// @Failure      403         {object}  domain.AuthResponse
// @Router       /auth/demo/{role} [post]
func (h *AuthHandler) DemoLogin(c echo.Context) error {
	role := c.Param("role")
	key := c.Request().Header.Get(DemoKeyHeader)
	return h.signIn(c, func(a ports.AuthContext) domain.AuthResponse {
		return a.DemoLogin(c.Request().Context(), role, key)
	})
}

// SendOTP sends a login code.
//
// @Summary      Send login code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/otp/send [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req emailRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.SignInWithOTP(c.Request().Context(), req.Email))
}

// VerifyOTP checks a login code and signs the user in when the backend
// issues a token.
//
// @Summary      Verify login code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Email and code"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	return h.signIn(c, func(a ports.AuthContext) domain.AuthResponse {
		return a.VerifyOTP(c.Request().Context(), req.Email, req.OTP)
	})
}

// ResendOTP re-sends a code for the given purpose.
//
// @Summary      Resend code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body      resendRequest  true  "Email and purpose"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/otp/resend [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.ResendOTP(c.Request().Context(), req.Email, req.Purpose))
}

// SendEmailVerification sends the e-mail verification code.
//
// @Summary      Send verification code
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/email/send-verification [post]
func (h *AuthHandler) SendEmailVerification(c echo.Context) error {
	var req emailRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.SendEmailVerification(c.Request().Context(), req.Email))
}

// VerifyEmail confirms the e-mail address.
//
// @Summary      Verify email
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Email and code"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/email/verify [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req otpRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.VerifyEmail(c.Request().Context(), req.Email, req.OTP))
}

// ForgotPassword sends a password reset code.
//
// @Summary      Forgot password
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.ForgotPassword(c.Request().Context(), req.Email))
}

// ResetPassword sets a new password using a reset code.
//
// @Summary      Reset password
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset details"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword))
}

// OAuthRedirect sends the browser to the provider sign-in page.
//
// @Summary      Start OAuth sign-in
// @Tags         oauth
// @Param        provider  path  string  true  "google or linkedin"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /auth/oauth/{provider} [get]
func (h *AuthHandler) OAuthRedirect(c echo.Context) error {
	a, err := h.current(c)
	if err != nil {
		return err
	}

	var url string
	switch strings.ToLower(c.Param("provider")) {
	case "google":
		url, err = a.SignInWithGoogle()
	case "linkedin", "linkedin_oidc":
		url, err = a.SignInWithLinkedIn()
	default:
		err = domain.ErrUnsupportedProvider
	}
	if err != nil {
		return err
	}

	if c.QueryParam("mode") == "json" {
		return c.JSON(http.StatusOK, redirectResponse{URL: url})
	}
	return c.Redirect(http.StatusFound, url)
}

// Callback completes an OAuth sign-in from the redirect fragment.
//
// @Summary      Complete OAuth sign-in
// @Tags         oauth
// @Accept       json
// @Produce      json
// @Param        body  body      callbackRequest  true  "URL fragment from the provider redirect"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Router       /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	var req callbackRequest
	if resp, ok := bindAuth(c, &req); !ok {
		return respond(c, resp)
	}
	return h.signIn(c, func(a ports.AuthContext) domain.AuthResponse {
		return a.CompleteOAuth(c.Request().Context(), req.Fragment)
	})
}

// Session reconciles the stored session with the backend and returns the
// resulting auth state.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.Init(c.Request().Context()))
}

// UpdateProfile patches the signed-in user's profile.
//
// @Summary      Update profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]interface{}  true  "Profile fields"
// @Success      200   {object}  domain.AuthResponse
// @Failure      400   {object}  domain.AuthResponse
// @Failure      401   {object}  domain.AuthResponse
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return respond(c, domain.AuthResponse{Error: "invalid payload", Status: http.StatusBadRequest})
	}
	a, err := h.current(c)
	if err != nil {
		return err
	}
	return respond(c, a.UpdateProfile(c.Request().Context(), patch))
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.AuthResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	a, err := h.current(c)
	if err != nil {
		return err
	}
	resp := a.Logout(c.Request().Context())
	if resp.Success {
		h.cookies.Expire(c)
	}
	return respond(c, resp)
}

// --- helpers ---

func (h *AuthHandler) current(c echo.Context) (ports.AuthContext, error) {
	sid, err := ctxSID(c)
	if err != nil {
		return nil, err
	}
	return h.contexts(sid), nil
}

// signIn runs op under a fresh session id and only hands the new id to the
// browser once a session was established, so a pre-login id never becomes
// an authenticated one. The session under the previous id is dropped.
func (h *AuthHandler) signIn(c echo.Context, op func(ports.AuthContext) domain.AuthResponse) error {
	sid := uuid.NewString()
	resp := op(h.contexts(sid))
	if resp.Success && resp.Token != "" {
		previous, _ := ctxSID(c)
		if err := h.cookies.Issue(c, sid); err != nil {
			return err
		}
		if previous != "" && previous != sid {
			if err := h.sessions.Clear(c.Request().Context(), previous); err != nil {
				log := logger.Component("auth_handler")
				log.Warn().Err(err).Msg("sign-in: clear previous session")
			}
		}
	}
	return respond(c, resp)
}

// bindAuth binds and validates req, reporting failures as an AuthResponse.
func bindAuth(c echo.Context, req any) (domain.AuthResponse, bool) {
	if err := c.Bind(req); err != nil {
		return domain.AuthResponse{Error: "invalid payload", Status: http.StatusBadRequest}, false
	}
	if err := c.Validate(req); err != nil {
		return domain.AuthResponse{Error: err.Error(), Status: http.StatusBadRequest}, false
	}
	return domain.AuthResponse{}, true
}

func respond(c echo.Context, resp domain.AuthResponse) error {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
		if !resp.Success && !resp.RequiresEmailVerification {
			status = http.StatusBadRequest
		}
	}
	return c.JSON(status, resp)
}
