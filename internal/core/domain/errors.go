package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionNotFound     = errors.New("session not found")
	ErrDemoDisabled        = errors.New("demo login is disabled")
	ErrDemoForbidden       = errors.New("demo access key rejected")
	ErrDemoRoleUnavailable = errors.New("no demo account for role")
	ErrOAuthCallback       = errors.New("invalid oauth callback")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrBackendUnavailable  = errors.New("backend unavailable")
	ErrDashboardNotFound   = errors.New("dashboard not found")
	ErrDashboardExists     = errors.New("dashboard already exists")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrPaymentGateway      = errors.New("payment gateway unavailable")
	ErrForbidden           = errors.New("access forbidden")
	ErrMalformedPayload    = errors.New("malformed user payload")
)

// UpstreamError is a non-2xx answer (or success=false envelope) from the
// MinuteHire backend.
type UpstreamError struct {
	Status                    int
	Message                   string
	RequiresEmailVerification bool
	Email                     string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}
