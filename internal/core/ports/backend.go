package ports

import "context"

// BackendAuth is the backend's answer to a successful login or register:
// the flat user object and a bearer token.
type BackendAuth struct {
	User  map[string]any
	Token string
}

// RegisterInput carries the fields sent to the backend register endpoint.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Backend is the MinuteHire backend API as seen by the gateway.
type Backend interface {
	Login(ctx context.Context, email, password string) (*BackendAuth, error)
	Register(ctx context.Context, in RegisterInput) (*BackendAuth, error)
	Logout(ctx context.Context, token string) error

	// Session introspects token and returns the flat user it belongs to.
	Session(ctx context.Context, token string) (map[string]any, error)
	// Profile returns the extra profile fields for the token's user.
	Profile(ctx context.Context, token string) (map[string]any, error)
	UpdateProfile(ctx context.Context, token string, patch map[string]any) (map[string]any, error)
}

// OTPResult is the {success, message} envelope of the OTP endpoints. User and
// Token are set only when verification also signs the user in.
type OTPResult struct {
	Success bool
	Message string
	User    map[string]any
	Token   string
}

// OTPClient sends and verifies one-time codes.
type OTPClient interface {
	SendEmailVerification(ctx context.Context, email string) (*OTPResult, error)
	VerifyEmail(ctx context.Context, email, otp string) (*OTPResult, error)
	Resend(ctx context.Context, email, purpose string) (*OTPResult, error)
	SendPasswordReset(ctx context.Context, email string) (*OTPResult, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (*OTPResult, error)
}

// DashboardAPI reads and creates recruiter dashboards. FindDashboard returns
// domain.ErrDashboardNotFound when none exists; CreateDashboard returns
// domain.ErrDashboardExists when another writer won.
type DashboardAPI interface {
	FindDashboard(ctx context.Context, token, userID string) (string, error)
	CreateDashboard(ctx context.Context, token, userID string) (string, error)
}
