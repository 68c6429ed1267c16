package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/api/middleware"
	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// ctxSID returns the session id resolved by the session middleware. An empty
// id means the middleware did not run, which is a wiring bug.
func ctxSID(c echo.Context) (string, error) {
	sid, _ := c.Get(middleware.ContextSID).(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, nil
}

// ctxSession returns the stored session injected by RequireSession.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.ContextSession).(*domain.Session)
	if sess == nil || sess.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return sess, nil
}
