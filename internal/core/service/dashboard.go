package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/minutehire/auth-gateway/internal/api/metrics"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

// DashboardResolver gets or creates the recruiter dashboard. Concurrent
// callers for the same user in this process share one upstream exchange; a
// conflict from a writer elsewhere is resolved by re-reading, so the first
// writer wins.
type DashboardResolver struct {
	api   ports.DashboardAPI
	group singleflight.Group
	log   zerolog.Logger
}

func NewDashboardResolver(api ports.DashboardAPI, log zerolog.Logger) *DashboardResolver {
	return &DashboardResolver{api: api, log: log}
}

// GetOrCreate returns the dashboard id for userID, creating it if needed.
func (r *DashboardResolver) GetOrCreate(ctx context.Context, token, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("get or create dashboard: empty user id")
	}
	// The shared exchange outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := r.group.DoChan(userID, func() (any, error) {
		return r.getOrCreate(context.WithoutCancel(ctx), token, userID)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			metrics.DashboardResolutionsTotal.WithLabelValues("error").Inc()
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *DashboardResolver) getOrCreate(ctx context.Context, token, userID string) (string, error) {
	id, err := r.api.FindDashboard(ctx, token, userID)
	if err == nil {
		metrics.DashboardResolutionsTotal.WithLabelValues("found").Inc()
		return id, nil
	}
	if !errors.Is(err, domain.ErrDashboardNotFound) {
		return "", fmt.Errorf("find dashboard: %w", err)
	}

	id, err = r.api.CreateDashboard(ctx, token, userID)
	switch {
	case err == nil:
		metrics.DashboardResolutionsTotal.WithLabelValues("created").Inc()
		r.log.Info().Str("user_id", userID).Str("dashboard_id", id).Msg("recruiter dashboard created")
		return id, nil
	case errors.Is(err, domain.ErrDashboardExists):
		metrics.DashboardResolutionsTotal.WithLabelValues("conflict").Inc()
		r.log.Debug().Str("user_id", userID).Msg("dashboard created concurrently, re-reading")
		id, err = r.api.FindDashboard(ctx, token, userID)
		if err != nil {
			return "", fmt.Errorf("re-read dashboard: %w", err)
		}
		return id, nil
	default:
		return "", fmt.Errorf("create dashboard: %w", err)
	}
}
