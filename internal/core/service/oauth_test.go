package service

import (
	"errors"
	"net/url"
	"testing"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

func TestOAuth_AuthorizeURL(t *testing.T) {
	o := NewOAuth("https://auth.minutehire.test/", "https://app.minutehire.test/")

	tests := []struct {
		provider string
		want     string
	}{
		{"google", ProviderGoogle},
		{"Google", ProviderGoogle},
		{"linkedin", ProviderLinkedIn},
		{"linkedin_oidc", ProviderLinkedIn},
	}
	for _, tt := range tests {
		raw, err := o.AuthorizeURL(tt.provider)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.provider, err)
		}
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("%s: bad url %q", tt.provider, raw)
		}
		if u.Host != "auth.minutehire.test" || u.Path != "/auth/v1/authorize" {
			t.Fatalf("%s: unexpected url %q", tt.provider, raw)
		}
		if got := u.Query().Get("provider"); got != tt.want {
			t.Fatalf("%s: expected provider %q, got %q", tt.provider, tt.want, got)
		}
		if got := u.Query().Get("redirect_to"); got != "https://app.minutehire.test/auth/callback" {
			t.Fatalf("%s: unexpected redirect_to %q", tt.provider, got)
		}
	}
}

func TestOAuth_AuthorizeURL_Unsupported(t *testing.T) {
	_, err := NewOAuth("https://auth", "https://app").AuthorizeURL("github")
	if !errors.Is(err, domain.ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}

func TestParseFragment(t *testing.T) {
	cb, err := ParseFragment("#access_token=at&refresh_token=rt&token_type=bearer&expires_in=3600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cb.AccessToken != "at" || cb.RefreshToken != "rt" || cb.ExpiresIn != 3600 {
		t.Fatalf("unexpected callback: %+v", cb)
	}

	if _, err := ParseFragment("access_token=at"); err != nil {
		t.Fatalf("fragment without '#' must parse: %v", err)
	}
}

func TestParseFragment_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"hash only":      "#",
		"provider error": "#error=access_denied&error_description=denied",
		"no token":       "#refresh_token=rt",
		"bad token type": "#access_token=at&token_type=mac",
		"bad expiry":     "#access_token=at&expires_in=soon",
		"negative":       "#access_token=at&expires_in=-1",
	}
	for name, fragment := range cases {
		if _, err := ParseFragment(fragment); !errors.Is(err, domain.ErrOAuthCallback) {
			t.Fatalf("%s: expected ErrOAuthCallback, got %v", name, err)
		}
	}
}

func TestDetectCallbackRedirect(t *testing.T) {
	to, ok := DetectCallbackRedirect("https://app.minutehire.test/login#access_token=at&token_type=bearer")
	if !ok || to != "/auth/callback#access_token=at&token_type=bearer" {
		t.Fatalf("expected redirect to callback, got %q, %v", to, ok)
	}

	if _, ok := DetectCallbackRedirect("/#error=access_denied"); !ok {
		t.Fatal("expected provider error fragment to be detected")
	}
}

func TestDetectCallbackRedirect_Ignores(t *testing.T) {
	for _, raw := range []string{
		"/auth/callback#access_token=at",
		"/auth/callback/#access_token=at",
		"/login",
		"/docs#section-2",
	} {
		if to, ok := DetectCallbackRedirect(raw); ok {
			t.Fatalf("%s: unexpected redirect to %q", raw, to)
		}
	}
}
