package backend

import (
	"context"
	"net/http"

	"github.com/minutehire/auth-gateway/internal/core/ports"
)

type otpRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp,omitempty"`
	Type        string `json:"type,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

func (c *Client) SendEmailVerification(ctx context.Context, email string) (*ports.OTPResult, error) {
	return c.otp(ctx, "otp_send_verification", "/api/otp/send-email-verification", otpRequest{Email: email})
}

func (c *Client) VerifyEmail(ctx context.Context, email, otp string) (*ports.OTPResult, error) {
	return c.otp(ctx, "otp_verify_email", "/api/otp/verify-email", otpRequest{Email: email, OTP: otp})
}

// Resend re-issues a code; purpose is "email_verification" or "password_reset".
func (c *Client) Resend(ctx context.Context, email, purpose string) (*ports.OTPResult, error) {
	return c.otp(ctx, "otp_resend", "/api/otp/resend", otpRequest{Email: email, Type: purpose})
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) (*ports.OTPResult, error) {
	return c.otp(ctx, "otp_send_reset", "/api/otp/send-password-reset", otpRequest{Email: email})
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (*ports.OTPResult, error) {
	return c.otp(ctx, "otp_reset_password", "/api/otp/reset-password",
		otpRequest{Email: email, OTP: otp, NewPassword: newPassword})
}

// otp posts to an OTP endpoint. A 2xx answer with success=false is reported
// as an *APIError so callers only inspect one failure path.
func (c *Client) otp(ctx context.Context, endpoint, path string, body otpRequest) (*ports.OTPResult, error) {
	env, err := c.do(ctx, endpoint, http.MethodPost, path, "", body, nil)
	if err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return nil, &APIError{Status: http.StatusBadRequest, Message: msg}
	}
	return &ports.OTPResult{
		Success: true,
		Message: env.Message,
		User:    env.User,
		Token:   env.Token,
	}, nil
}
