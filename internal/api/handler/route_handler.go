package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
	"github.com/minutehire/auth-gateway/internal/core/service"
	"github.com/minutehire/auth-gateway/internal/routing"
)

type dashboardResponse struct {
	Role  string `json:"role"`
	Valid bool   `json:"valid"`
	Path  string `json:"path"`
}

type resolveResponse struct {
	Route    routing.Route     `json:"route"`
	Params   map[string]string `json:"params,omitempty"`
	Decision routing.Decision  `json:"decision"`
	Session  domain.Snapshot   `json:"session"`
}

// RouteHandler answers role routing questions for the web app.
type RouteHandler struct {
	contexts ports.AuthContextFactory
}

func NewRouteHandler(contexts ports.AuthContextFactory) *RouteHandler {
	return &RouteHandler{contexts: contexts}
}

// Dashboard returns the landing path for a role. Unknown roles map to "/".
//
// @Summary      Dashboard route for a role
// @Tags         routing
// @Produce      json
// @Param        role  path      string  true  "Role"
// @Success      200   {object}  dashboardResponse
// @Router       /routes/dashboard/{role} [get]
func (h *RouteHandler) Dashboard(c echo.Context) error {
	role := c.Param("role")
	return c.JSON(http.StatusOK, dashboardResponse{
		Role:  role,
		Valid: domain.IsValidRole(role),
		Path:  routing.DashboardRoute(role),
	})
}

// Resolve matches path against the page table and runs the route guard for
// the caller's session. A URL carrying an OAuth result outside the callback
// page is forwarded to the callback page first.
//
// @Summary      Resolve a page and guard it
// @Tags         routing
// @Produce      json
// @Param        path  query     string  true  "Page path, optionally with query and fragment"
// @Success      200   {object}  resolveResponse
// @Failure      400   {object}  map[string]string
// @Router       /routes/resolve [get]
func (h *RouteHandler) Resolve(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	if to, ok := service.DetectCallbackRedirect(path); ok {
		route, _ := routing.Resolve(routing.CallbackPath)
		return c.JSON(http.StatusOK, resolveResponse{
			Route:    route,
			Decision: routing.Decision{Action: routing.ActionRedirect, To: to},
		})
	}

	sid, err := ctxSID(c)
	if err != nil {
		return err
	}
	snap := h.contexts(sid).Init(c.Request().Context())

	route, params := routing.Resolve(path)
	return c.JSON(http.StatusOK, resolveResponse{
		Route:    route,
		Params:   params,
		Decision: routing.Guard(route, snap),
		Session:  snap,
	})
}
