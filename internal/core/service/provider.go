package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/minutehire/auth-gateway/internal/api/metrics"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
	"github.com/minutehire/auth-gateway/internal/routing"
)

// Provider is the auth context of one session. It starts Initializing,
// settles to Authenticated or Anonymous in Init, and moves between those two
// as operations succeed. Results that arrive after ctx is cancelled are
// dropped without touching state.
type Provider struct {
	sid        string
	auth       *AuthService
	dashboards *DashboardResolver
	log        zerolog.Logger

	mu    sync.RWMutex
	state domain.AuthState
	user  *domain.User
}

func NewProvider(sid string, auth *AuthService, dashboards *DashboardResolver, log zerolog.Logger) *Provider {
	return &Provider{
		sid:        sid,
		auth:       auth,
		dashboards: dashboards,
		log:        log,
		state:      domain.StateInitializing,
	}
}

// NewProviderFactory binds providers to session ids for the transport layer.
func NewProviderFactory(auth *AuthService, dashboards *DashboardResolver, log zerolog.Logger) ports.AuthContextFactory {
	return func(sid string) ports.AuthContext {
		return NewProvider(sid, auth, dashboards, log)
	}
}

// Snapshot returns the current observable state.
func (p *Provider) Snapshot() domain.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := domain.Snapshot{
		State:           p.state,
		Loading:         p.state == domain.StateInitializing,
		IsAuthenticated: p.state == domain.StateAuthenticated && p.user != nil,
	}
	if p.user != nil {
		snap.User = p.user.Clone()
		snap.DashboardRoute = routing.DashboardRoute(string(p.user.Role))
	}
	return snap
}

func (p *Provider) set(state domain.AuthState, user *domain.User) {
	p.mu.Lock()
	p.state = state
	p.user = user.Clone()
	p.mu.Unlock()
}

// --- Startup reconciliation ---

// Init reconciles the stored session with the backend. It returns only after
// hydration, including the recruiter dashboard get-or-create, has finished.
func (p *Provider) Init(ctx context.Context) domain.Snapshot {
	sess, err := p.auth.LoadSession(ctx, p.sid)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			p.log.Error().Err(err).Msg("init: load session")
		}
		metrics.SessionHydrationsTotal.WithLabelValues("anonymous").Inc()
		p.set(domain.StateAnonymous, nil)
		return p.Snapshot()
	}

	if sess.Demo {
		metrics.SessionHydrationsTotal.WithLabelValues("authenticated").Inc()
		p.set(domain.StateAuthenticated, sess.User)
		return p.Snapshot()
	}

	user, ok := p.hydrate(ctx, sess)
	if ctx.Err() != nil {
		return p.Snapshot()
	}
	if !ok {
		metrics.SessionHydrationsTotal.WithLabelValues("expired").Inc()
		if err := p.auth.ClearSession(ctx, p.sid); err != nil {
			p.log.Error().Err(err).Msg("init: clear expired session")
		}
		p.set(domain.StateAnonymous, nil)
		return p.Snapshot()
	}

	sess.User = user
	sess.UpdatedAt = p.auth.now()
	if err := p.auth.SaveSession(ctx, p.sid, sess); err != nil {
		p.log.Error().Err(err).Msg("init: save hydrated session")
	}
	metrics.SessionHydrationsTotal.WithLabelValues("authenticated").Inc()
	p.set(domain.StateAuthenticated, user)
	return p.Snapshot()
}

// hydrate introspects the backend session and merges the full profile. It
// reports false only when the backend rejects the token; on transport
// failures the cached user is kept.
func (p *Provider) hydrate(ctx context.Context, sess *domain.Session) (*domain.User, bool) {
	cached := sess.User
	payload, err := p.auth.backend.Session(ctx, sess.Token)
	if err != nil {
		var ae *domain.UpstreamError
		if errors.As(err, &ae) && (ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden) {
			return nil, false
		}
		p.log.Warn().Err(err).Msg("init: session introspection failed, using cached user")
		return cached, cached != nil
	}

	user, err := domain.UserFromPayload(payload)
	if err != nil {
		p.log.Warn().Err(err).Msg("init: unusable session payload, using cached user")
		user = cached.Clone()
	}
	if user == nil {
		return nil, false
	}

	if extra, err := p.auth.backend.Profile(ctx, sess.Token); err != nil {
		p.log.Warn().Err(err).Str("user_id", user.ID).Msg("init: profile fetch failed")
	} else {
		user.MergePayload(extra)
	}

	if user.Role == domain.RoleRecruiter && user.DashboardID() == "" && cached != nil {
		user.SetDashboardID(cached.DashboardID())
	}
	if user.Role == domain.RoleRecruiter && user.DashboardID() == "" {
		id, err := p.dashboards.GetOrCreate(ctx, sess.Token, user.ID)
		if err != nil {
			p.log.Error().Err(err).Str("user_id", user.ID).Msg("init: recruiter dashboard unavailable")
		} else {
			user.SetDashboardID(id)
		}
	}
	return user, true
}

// --- Operations ---

// apply moves to Authenticated when resp carries a freshly established
// session. Cancelled requests never change state.
func (p *Provider) apply(ctx context.Context, resp domain.AuthResponse) domain.AuthResponse {
	if ctx.Err() != nil {
		return resp
	}
	if resp.Success && resp.Token != "" && resp.User != nil {
		p.set(domain.StateAuthenticated, resp.User)
	}
	return resp
}

func (p *Provider) Login(ctx context.Context, email, password string) domain.AuthResponse {
	return p.apply(ctx, p.auth.Login(ctx, p.sid, email, password))
}

// Signup never signs the user in; the state is left as it was.
func (p *Provider) Signup(ctx context.Context, in ports.SignupInput) domain.AuthResponse {
	return p.auth.Signup(ctx, in)
}

func (p *Provider) DemoLogin(ctx context.Context, role, accessKey string) domain.AuthResponse {
	return p.apply(ctx, p.auth.DemoLogin(ctx, p.sid, role, accessKey))
}

func (p *Provider) SignInWithOTP(ctx context.Context, email string) domain.AuthResponse {
	return p.auth.SignInWithOTP(ctx, email)
}

func (p *Provider) VerifyOTP(ctx context.Context, email, otp string) domain.AuthResponse {
	return p.apply(ctx, p.auth.VerifyOTP(ctx, p.sid, email, otp))
}

func (p *Provider) SendEmailVerification(ctx context.Context, email string) domain.AuthResponse {
	return p.auth.SendEmailVerification(ctx, email)
}

func (p *Provider) VerifyEmail(ctx context.Context, email, otp string) domain.AuthResponse {
	return p.auth.VerifyEmail(ctx, email, otp)
}

func (p *Provider) ResendOTP(ctx context.Context, email, purpose string) domain.AuthResponse {
	return p.auth.ResendOTP(ctx, email, purpose)
}

func (p *Provider) ForgotPassword(ctx context.Context, email string) domain.AuthResponse {
	return p.auth.ForgotPassword(ctx, email)
}

func (p *Provider) ResetPassword(ctx context.Context, email, otp, newPassword string) domain.AuthResponse {
	return p.auth.ResetPassword(ctx, email, otp, newPassword)
}

func (p *Provider) UpdateProfile(ctx context.Context, patch map[string]any) domain.AuthResponse {
	resp := p.auth.UpdateProfile(ctx, p.sid, patch)
	if ctx.Err() == nil && resp.Success && resp.User != nil {
		p.set(domain.StateAuthenticated, resp.User)
	}
	return resp
}

func (p *Provider) Logout(ctx context.Context) domain.AuthResponse {
	resp := p.auth.Logout(ctx, p.sid)
	if resp.Success {
		p.set(domain.StateAnonymous, nil)
	}
	return resp
}

func (p *Provider) SignInWithGoogle() (string, error) {
	return p.auth.OAuthURL(ProviderGoogle)
}

func (p *Provider) SignInWithLinkedIn() (string, error) {
	return p.auth.OAuthURL(ProviderLinkedIn)
}

func (p *Provider) CompleteOAuth(ctx context.Context, fragment string) domain.AuthResponse {
	return p.apply(ctx, p.auth.CompleteOAuth(ctx, p.sid, fragment))
}
