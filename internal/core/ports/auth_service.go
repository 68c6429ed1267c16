package ports

import (
	"context"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// AuthContext is the per-session view the transport layer drives. Every
// operation reports its outcome in the returned AuthResponse.
type AuthContext interface {
	Init(ctx context.Context) domain.Snapshot
	Snapshot() domain.Snapshot

	Login(ctx context.Context, email, password string) domain.AuthResponse
	Signup(ctx context.Context, in SignupInput) domain.AuthResponse
	DemoLogin(ctx context.Context, role, accessKey string) domain.AuthResponse
	SignInWithOTP(ctx context.Context, email string) domain.AuthResponse
	VerifyOTP(ctx context.Context, email, otp string) domain.AuthResponse
	SendEmailVerification(ctx context.Context, email string) domain.AuthResponse
	VerifyEmail(ctx context.Context, email, otp string) domain.AuthResponse
	ResendOTP(ctx context.Context, email, purpose string) domain.AuthResponse
	ForgotPassword(ctx context.Context, email string) domain.AuthResponse
	ResetPassword(ctx context.Context, email, otp, newPassword string) domain.AuthResponse
	UpdateProfile(ctx context.Context, patch map[string]any) domain.AuthResponse
	Logout(ctx context.Context) domain.AuthResponse

	SignInWithGoogle() (string, error)
	SignInWithLinkedIn() (string, error)
	CompleteOAuth(ctx context.Context, fragment string) domain.AuthResponse
}

// AuthContextFactory returns the AuthContext bound to a session id.
type AuthContextFactory func(sid string) AuthContext
