package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/minutehire/auth-gateway/docs"
	"github.com/minutehire/auth-gateway/internal/api/handler"
	"github.com/minutehire/auth-gateway/internal/api/middleware"
	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	Log      zerolog.Logger
	AppURL   string
	Cookie   *middleware.SessionCookie
	Sessions ports.SessionStore
	Contexts ports.AuthContextFactory
	Payments ports.PaymentService
	Checks   map[string]handler.DependencyCheck

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth_gateway",
		Registerer: deps.Registerer,
	}))
	if deps.AppURL != "" {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     []string{deps.AppURL},
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.DemoKeyHeader},
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Contexts, deps.Cookie, deps.Sessions)
	routeHandler := handler.NewRouteHandler(deps.Contexts)
	paymentHandler := handler.NewPaymentHandler(deps.Payments)
	session := deps.Cookie.Session()

	// --- Auth routes ---
	auth := e.Group("/auth", session)
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/demo/:role", authHandler.DemoLogin)
	auth.POST("/otp/send", authHandler.SendOTP)
	auth.POST("/otp/verify", authHandler.VerifyOTP)
	auth.POST("/otp/resend", authHandler.ResendOTP)
	auth.POST("/email/send-verification", authHandler.SendEmailVerification)
	auth.POST("/email/verify", authHandler.VerifyEmail)
	auth.POST("/password/forgot", authHandler.ForgotPassword)
	auth.POST("/password/reset", authHandler.ResetPassword)
	auth.GET("/oauth/:provider", authHandler.OAuthRedirect)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/session", authHandler.Session)
	auth.PATCH("/profile", authHandler.UpdateProfile)
	auth.POST("/logout", authHandler.Logout)

	// --- Role routing ---
	e.GET("/routes/dashboard/:role", routeHandler.Dashboard)
	e.GET("/routes/resolve", routeHandler.Resolve, session)

	// --- Payments ---
	e.POST("/webhooks/phonepe", paymentHandler.Webhook)
	v1 := e.Group("/v1", session, middleware.RequireSession(deps.Sessions), middleware.RejectDemo())
	v1.GET("/orders/:transaction_id", paymentHandler.GetOrder,
		middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
