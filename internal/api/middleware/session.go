package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

// CookieName is the name of the signed session cookie.
const CookieName = "mh_session"

// Context keys set by the session middleware.
const (
	ContextSID     = "sid"
	ContextSession = "session"
	ContextRole    = "role"
	ContextUserID  = "user_id"
)

// SessionCookie signs and verifies the session id cookie. The cookie holds a
// HS256 JWT whose subject is the session id; the session itself lives in the
// session store.
type SessionCookie struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionCookie(secret string, ttl time.Duration, secure bool) *SessionCookie {
	return &SessionCookie{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue signs sid and sets it as the session cookie.
func (s *SessionCookie) Issue(c echo.Context, sid string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(ContextSID, sid)
	return nil
}

// Expire removes the session cookie from the browser.
func (s *SessionCookie) Expire(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Parse verifies a signed cookie value and returns the session id.
func (s *SessionCookie) Parse(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid session token")
	}
	if claims.Subject == "" {
		return "", errors.New("session token without subject")
	}
	return claims.Subject, nil
}

// Session resolves the session id from the cookie or an Authorization bearer
// header. A request without a valid one gets a fresh id and cookie.
func (s *SessionCookie) Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := s.token(c); raw != "" {
				if sid, err := s.Parse(raw); err == nil {
					c.Set(ContextSID, sid)
					return next(c)
				}
			}
			if err := s.Issue(c, uuid.NewString()); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not issue session")
			}
			return next(c)
		}
	}
}

func (s *SessionCookie) token(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// RequireSession rejects requests whose session id has no stored session and
// injects the session, role and user id into context.
func RequireSession(store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, _ := c.Get(ContextSID).(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			sess, err := store.Load(c.Request().Context(), sid)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				return err
			}

			c.Set(ContextSession, sess)
			c.Set(ContextRole, string(sess.User.Role))
			c.Set(ContextUserID, sess.User.ID)

			return next(c)
		}
	}
}

// RejectDemo lets only sessions backed by a real backend login through. Demo
// sessions are fabricated locally and must never reach live data. It must run
// after RequireSession.
func RejectDemo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(ContextSession).(*domain.Session)
			if sess == nil || sess.Demo {
				return fmt.Errorf("demo session on %s: %w", c.Path(), domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
