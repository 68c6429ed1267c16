package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/minutehire/auth-gateway/internal/core/ports"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Login calls POST /api/user/login. A 403 carrying requiresEmailVerification
// comes back as an *APIError with that flag set.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.BackendAuth, error) {
	env, err := c.do(ctx, "user_login", http.MethodPost, "/api/user/login", "",
		credentials{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	if env.User == nil || env.Token == "" {
		return nil, fmt.Errorf("user_login: response missing user or token")
	}
	return &ports.BackendAuth{User: env.User, Token: env.Token}, nil
}

// Register calls POST /api/user/register. The backend may or may not return
// a token; an empty token is not an error.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*ports.BackendAuth, error) {
	env, err := c.do(ctx, "user_register", http.MethodPost, "/api/user/register", "",
		credentials{Email: in.Email, Password: in.Password, FullName: in.FullName, Role: in.Role}, nil)
	if err != nil {
		return nil, err
	}
	return &ports.BackendAuth{User: env.User, Token: env.Token}, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, "user_logout", http.MethodPost, "/api/user/logout", token, nil, nil)
	return err
}

// Session introspects token via GET /api/user/session.
func (c *Client) Session(ctx context.Context, token string) (map[string]any, error) {
	var raw map[string]any
	env, err := c.do(ctx, "user_session", http.MethodGet, "/api/user/session", token, nil, &raw)
	if err != nil {
		return nil, err
	}
	if env.User != nil {
		return env.User, nil
	}
	if raw == nil {
		return nil, fmt.Errorf("user_session: empty response")
	}
	return raw, nil
}

// Profile fetches GET /api/user/profile.
func (c *Client) Profile(ctx context.Context, token string) (map[string]any, error) {
	var raw map[string]any
	env, err := c.do(ctx, "user_profile", http.MethodGet, "/api/user/profile", token, nil, &raw)
	if err != nil {
		return nil, err
	}
	return pickProfile(env, raw), nil
}

// UpdateProfile sends PATCH /api/user/profile and returns the updated fields.
func (c *Client) UpdateProfile(ctx context.Context, token string, patch map[string]any) (map[string]any, error) {
	var raw map[string]any
	env, err := c.do(ctx, "user_profile_update", http.MethodPatch, "/api/user/profile", token, patch, &raw)
	if err != nil {
		return nil, err
	}
	return pickProfile(env, raw), nil
}

func pickProfile(env *envelope, raw map[string]any) map[string]any {
	switch {
	case env.Profile != nil:
		return env.Profile
	case env.User != nil:
		return env.User
	}
	return raw
}
