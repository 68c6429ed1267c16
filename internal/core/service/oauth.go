package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/routing"
)

// OAuth providers.
const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin_oidc"
)

var providerAliases = map[string]string{
	"google":        ProviderGoogle,
	"linkedin":      ProviderLinkedIn,
	"linkedin_oidc": ProviderLinkedIn,
}

// OAuth builds provider redirect URLs and parses callback fragments.
type OAuth struct {
	authURL string
	appURL  string
}

// NewOAuth takes the auth server base URL and the public URL of the web app
// (the callback lands on appURL + /auth/callback).
func NewOAuth(authURL, appURL string) *OAuth {
	return &OAuth{
		authURL: strings.TrimRight(authURL, "/"),
		appURL:  strings.TrimRight(appURL, "/"),
	}
}

// AuthorizeURL returns the URL that starts the provider sign-in.
func (o *OAuth) AuthorizeURL(provider string) (string, error) {
	name, ok := providerAliases[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	q := url.Values{}
	q.Set("provider", name)
	q.Set("redirect_to", o.appURL+routing.CallbackPath)
	return o.authURL + "/auth/v1/authorize?" + q.Encode(), nil
}

// Callback is the parsed OAuth redirect fragment.
type Callback struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
}

// ParseFragment parses an implicit-flow fragment
// ("access_token=...&refresh_token=...&expires_in=3600&token_type=bearer").
// A leading '#' is accepted. Provider errors and missing tokens are rejected
// with domain.ErrOAuthCallback.
func ParseFragment(fragment string) (*Callback, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return nil, fmt.Errorf("%w: empty fragment", domain.ErrOAuthCallback)
	}
	vals, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOAuthCallback, err)
	}
	if e := vals.Get("error"); e != "" {
		desc := vals.Get("error_description")
		if desc == "" {
			desc = e
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrOAuthCallback, desc)
	}

	cb := &Callback{
		AccessToken:  vals.Get("access_token"),
		RefreshToken: vals.Get("refresh_token"),
		TokenType:    vals.Get("token_type"),
	}
	if cb.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrOAuthCallback)
	}
	if cb.TokenType != "" && !strings.EqualFold(cb.TokenType, "bearer") {
		return nil, fmt.Errorf("%w: unsupported token type %q", domain.ErrOAuthCallback, cb.TokenType)
	}
	if v := vals.Get("expires_in"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: invalid expires_in", domain.ErrOAuthCallback)
		}
		cb.ExpiresIn = n
	}
	return cb, nil
}

// DetectCallbackRedirect reports whether rawURL carries an OAuth result in
// its fragment while pointing somewhere other than the callback route (the
// provider redirected to the wrong page). It returns the callback location
// the browser should be sent to.
func DetectCallbackRedirect(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Fragment == "" {
		return "", false
	}
	if strings.TrimRight(u.Path, "/") == routing.CallbackPath {
		return "", false
	}
	fragment := u.EscapedFragment()
	vals, err := url.ParseQuery(fragment)
	if err != nil {
		return "", false
	}
	if vals.Get("access_token") == "" && vals.Get("error") == "" {
		return "", false
	}
	return routing.CallbackPath + "#" + fragment, true
}
