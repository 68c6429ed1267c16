package domain

import "time"

// Session is the gateway-held cache of an authenticated identity.
type Session struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	Demo      bool      `json:"demo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.User = s.User.Clone()
	return &c
}

// AuthState is the lifecycle position of a single session.
type AuthState string

const (
	StateInitializing  AuthState = "initializing"
	StateAnonymous     AuthState = "anonymous"
	StateAuthenticated AuthState = "authenticated"
)

// AuthResponse is the uniform result of every auth operation. Operations
// never fail with a Go error; failures set Success=false and Error.
//
// On partial success (account created, verification e-mail not sent)
// Success is true and Error carries the advisory.
type AuthResponse struct {
	Success                   bool   `json:"success"`
	User                      *User  `json:"user,omitempty"`
	Token                     string `json:"token,omitempty"`
	Error                     string `json:"error,omitempty"`
	Message                   string `json:"message,omitempty"`
	RequiresEmailVerification bool   `json:"requiresEmailVerification,omitempty"`
	Email                     string `json:"email,omitempty"`
	// Status is the HTTP status the transport should answer with.
	Status int `json:"-"`
}

// Snapshot is the observable auth state of one session.
type Snapshot struct {
	State           AuthState `json:"state"`
	Loading         bool      `json:"loading"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	User            *User     `json:"user,omitempty"`
	DashboardRoute  string    `json:"dashboardRoute,omitempty"`
}
