package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// FindDashboard looks up the recruiter dashboard for userID.
func (c *Client) FindDashboard(ctx context.Context, token, userID string) (string, error) {
	env, err := c.do(ctx, "dashboard_find", http.MethodGet,
		"/api/recruiter/dashboard?user_id="+url.QueryEscape(userID), token, nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return "", domain.ErrDashboardNotFound
		}
		return "", err
	}
	id := dashboardID(env)
	if id == "" {
		return "", domain.ErrDashboardNotFound
	}
	return id, nil
}

// CreateDashboard creates the recruiter dashboard for userID. A 409 means a
// concurrent writer created it first.
func (c *Client) CreateDashboard(ctx context.Context, token, userID string) (string, error) {
	env, err := c.do(ctx, "dashboard_create", http.MethodPost, "/api/recruiter/dashboard", token,
		map[string]string{"user_id": userID}, nil)
	if err != nil {
		if IsConflict(err) {
			return "", domain.ErrDashboardExists
		}
		return "", err
	}
	id := dashboardID(env)
	if id == "" {
		return "", fmt.Errorf("dashboard_create: response missing id")
	}
	return id, nil
}

func dashboardID(env *envelope) string {
	if env.Dashboard != nil {
		if id, ok := env.Dashboard["id"].(string); ok {
			return id
		}
		if id, ok := env.Dashboard["_id"].(string); ok {
			return id
		}
	}
	if id, ok := env.ID.(string); ok {
		return id
	}
	return ""
}
