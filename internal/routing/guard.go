package routing

import "github.com/minutehire/auth-gateway/internal/core/domain"

// Action is what a route guard tells the UI to do.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionWait     Action = "wait"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of Guard.
type Decision struct {
	Action Action `json:"action"`
	To     string `json:"to,omitempty"`
}

// Guard decides whether snap may view r. While the session is still loading
// the answer is always wait, so a not-yet-hydrated session is never bounced
// to the login page.
func Guard(r Route, snap domain.Snapshot) Decision {
	if snap.Loading || snap.State == domain.StateInitializing {
		return Decision{Action: ActionWait}
	}

	authed := snap.IsAuthenticated && snap.User != nil
	if !authed {
		if r.Public {
			return Decision{Action: ActionAllow}
		}
		return Decision{Action: ActionRedirect, To: LoginPath}
	}

	if r.AuthPage {
		return Decision{Action: ActionRedirect, To: DashboardRoute(string(snap.User.Role))}
	}
	if !r.Allows(snap.User.Role) {
		return Decision{Action: ActionRedirect, To: DashboardRoute(string(snap.User.Role))}
	}
	return Decision{Action: ActionAllow}
}
