package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/prepinter/prepinter/internal/api/handler"
	"github.com/prepinter/prepinter/internal/api/middleware"
	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/origin"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const metricsSubsystem = "prepinter"

// Deps holds everything the API router needs. Services are built by the
// caller so the router stays free of storage concerns.
type Deps struct {
	Log        zerolog.Logger
	Production bool

	Policy   *origin.Policy
	Verifier ports.IdentityVerifier

	Auth       ports.AuthService
	Interviews ports.InterviewService
	Sessions   ports.SessionService
	Payments   ports.PaymentService
	Analytics  ports.AnalyticsService

	// RateLimiter guards the unauthenticated credential endpoints. Nil
	// disables limiting.
	RateLimiter *middleware.RateLimiter

	UploadsDir string
	BodyLimit  string

	// TracingService enables otelecho spans when non-empty.
	TracingService string

	// MetricsRegisterer defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	// --- Global middleware ---
	e.Use(middleware.Recover(d.Log))
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if d.TracingService != "" {
		e.Use(otelecho.Middleware(d.TracingService))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: d.MetricsRegisterer,
	}))
	e.Use(middleware.CORS(d.Policy))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(d.Auth)
	interviewHandler := handler.NewInterviewHandler(d.Interviews)
	sessionHandler := handler.NewSessionHandler(d.Sessions)
	paymentHandler := handler.NewPaymentHandler(d.Payments)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics)

	// --- Public routes ---
	e.GET("/", healthHandler.Welcome)
	e.GET("/health", healthHandler.Health)
	e.GET("/favicon.ico", healthHandler.Favicon)
	if d.UploadsDir != "" {
		e.Static("/uploads", d.UploadsDir)
	}

	var limited []echo.MiddlewareFunc
	if d.RateLimiter != nil {
		limited = append(limited, d.RateLimiter.Middleware())
	}
	e.POST("/api/users/register", userHandler.Register, limited...)
	e.POST("/api/users/login", userHandler.Login, limited...)

	// --- Guarded routes ---
	// Guard is attached per route so unmatched /api paths still reach the
	// not-found stage.
	guard := middleware.Guard(d.Verifier)
	api := e.Group("/api")

	users := api.Group("/users")
	users.GET("/profile", userHandler.Profile, guard)
	users.PUT("/profile", userHandler.UpdateProfile, guard)

	interviews := api.Group("/interviews")
	interviews.POST("", interviewHandler.Create, guard)
	interviews.POST("/start", interviewHandler.Start, guard)
	interviews.GET("", interviewHandler.List, guard)
	interviews.GET("/:id", interviewHandler.Get, guard)
	interviews.PUT("/:id", interviewHandler.Update, guard)
	interviews.DELETE("/:id", interviewHandler.Delete, guard)

	sessions := api.Group("/interview/session")
	sessions.POST("", sessionHandler.Start, guard)
	sessions.GET("/:id", sessionHandler.Get, guard)
	sessions.POST("/:id/answer", sessionHandler.Answer, guard)
	sessions.POST("/:id/end", sessionHandler.End, guard)

	payments := api.Group("/payments")
	payments.POST("", paymentHandler.Create, guard)
	payments.GET("", paymentHandler.List, guard)
	payments.GET("/:id", paymentHandler.Get, guard)
	payments.POST("/:id/verify", paymentHandler.Verify, guard)

	analytics := api.Group("/analytics")
	analytics.GET("/summary", analyticsHandler.Summary, guard)
	analytics.GET("/activity", analyticsHandler.Activity, guard)
	analytics.GET("/overview", analyticsHandler.Overview, guard, middleware.RBAC(domain.RoleAdmin))

	return e
}

// requestLogger writes one structured line per request. Errors are handed
// to the error handler first so the logged status matches what was sent.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
