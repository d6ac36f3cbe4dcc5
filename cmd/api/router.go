package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhms/alter/internal/config"
	"github.com/abhms/alter/internal/handler"
	"github.com/abhms/alter/internal/middleware"
)

type routerDeps struct {
	handler   *handler.Handler
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	analytics *handler.AnalyticsHandler
	links     *handler.LinkHandler
	redirect  *handler.RedirectHandler
	signIn    *handler.AuthHandler

	authenticator middleware.Authenticator
	limiter       middleware.RateLimiter

	cfg    *config.Config
	logger *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)
	r.Get("/", d.handler.Hello)

	authCfg := middleware.AuthConfig{
		Logger:        d.logger,
		Authenticator: d.authenticator,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          d.logger,
		Limiter:         d.limiter,
		ShortenEnabled:  d.cfg.RateLimitShortenEnabled,
		ShortenMax:      d.cfg.RateLimitShortenMax,
		ShortenWindow:   d.cfg.RateLimitShortenWindow,
		RedirectEnabled: d.cfg.RateLimitRedirectEnabled,
		RedirectRPS:     d.cfg.RateLimitRedirectRPS,
		RedirectBurst:   d.cfg.RateLimitRedirectBurst,
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(corsCfg))
		r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
		r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

		r.Post("/auth/google-signin", d.signIn.GoogleSignIn)

		r.Route("/shorten", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.With(middleware.RateLimitUser(rateLimitCfg)).Post("/", d.links.Create)
			r.Get("/{alias}", d.links.Get)
			r.Get("/{alias}/qr", d.links.QRCode)
		})

		r.Route("/analytics", func(r chi.Router) {
			// Static segments win over {alias} in chi, so "topic" and
			// "overall" are never treated as aliases.
			r.Get("/topic/{topic}", d.analytics.GetTopicAnalytics)
			r.With(middleware.Auth(authCfg)).Get("/overall/summary", d.analytics.GetOverallAnalytics)
			r.With(middleware.Auth(authCfg)).Get("/{alias}", d.analytics.GetAliasAnalytics)
		})
	})

	r.With(
		middleware.RateLimitIP(rateLimitCfg),
		middleware.OptionalAuth(authCfg),
	).Get("/{alias}", d.redirect.Redirect)

	r.NotFound(d.handler.NotFound)
	r.MethodNotAllowed(d.handler.MethodNotAllowed)

	return r
}
