package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/cinefavs/catalog-api/docs"
	"github.com/cinefavs/catalog-api/internal/api/handler"
	"github.com/cinefavs/catalog-api/internal/api/middleware"
	"github.com/cinefavs/catalog-api/internal/core/ports"
	"github.com/cinefavs/catalog-api/internal/infrastructure/config"
)

const (
	bodyLimit     = "10M"
	gzipLevel     = 6
	gzipMinLength = 1024
	hstsMaxAge    = 31536000
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger

	Auth      ports.AuthService
	Favorites ports.FavoriteService
	Movies    ports.MovieService
	Audit     ports.AuditSink // optional

	// Health maps dependency names to readiness checks.
	Health map[string]handler.PingFunc

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every API route is served at the root and again under /api; the auth
// routes are also served under /auth.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Config.IsDevelopment())

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		HSTSMaxAge:         hstsMaxAgeFor(d.Config),
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echomiddleware.GzipWithConfig(echomiddleware.GzipConfig{
		Level:     gzipLevel,
		MinLength: gzipMinLength,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "catalog",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(rateLimiter(d.Config.RateLimit.Requests, d.Config.RateLimit.Window))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Audit)
	favoriteHandler := handler.NewFavoriteHandler(d.Favorites, d.Audit)
	movieHandler := handler.NewMovieHandler(d.Movies, d.Audit)
	requireAuth := middleware.Auth(d.Auth, d.Audit)
	// One store for every mount of login/register, so the prefixes share a budget.
	loginLimit := rateLimiter(d.Config.RateLimit.LoginRequests, d.Config.RateLimit.LoginWindow)

	mountAuth := func(g *echo.Group) {
		g.POST("/register", authHandler.Register, loginLimit)
		g.POST("/login", authHandler.Login, loginLimit)
		g.POST("/logout", authHandler.Logout)
	}

	mountAPI := func(g *echo.Group) {
		mountAuth(g)
		g.GET("/profile", authHandler.Profile, requireAuth)
		g.GET("/verify-token", authHandler.VerifyToken, requireAuth)
		g.PUT("/password", authHandler.ChangePassword, requireAuth)

		g.GET("/movies", movieHandler.List)
		g.GET("/search", movieHandler.Search, requireAuth)

		g.GET("/favorites", favoriteHandler.List, requireAuth)
		g.POST("/favorites", favoriteHandler.Add, requireAuth)
		g.GET("/favorites/:movieId", favoriteHandler.Get, requireAuth)
		g.DELETE("/favorites/:movieId", favoriteHandler.Remove, requireAuth)
	}

	mountAPI(e.Group(""))
	mountAPI(e.Group("/api"))
	mountAuth(e.Group("/auth"))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// rateLimiter allows requests per window per client IP, refilling evenly
// across the window. Rejections render as 429 through the error handler. A
// non-positive limit disables it.
func rateLimiter(requests int, window time.Duration) echo.MiddlewareFunc {
	if requests <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(window / time.Duration(requests)),
		Burst:     requests,
		ExpiresIn: window,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var evt *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			default:
				evt = log.Info()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// hstsMaxAgeFor only turns HSTS on when the server itself terminates TLS.
func hstsMaxAgeFor(cfg *config.Config) int {
	if cfg.IsProduction() && cfg.TLS.Enabled() {
		return hstsMaxAge
	}
	return 0
}
