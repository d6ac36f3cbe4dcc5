// Package main is the entrypoint for the Alter API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/config"
	"github.com/abhms/alter/internal/geo"
	"github.com/abhms/alter/internal/handler"
	"github.com/abhms/alter/internal/metrics"
	"github.com/abhms/alter/internal/repository"
	"github.com/abhms/alter/internal/server"
	"github.com/abhms/alter/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	healthHandler := handler.NewHealthHandler(repo, cacheClient)

	var clickStore service.ClickStore = repository.NewClickRecordRepository(repo)
	var clickHouse *repository.ClickHouseStore
	if cfg.UseClickHouse() {
		clickHouse, err = openClickHouse(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect to ClickHouse",
				slog.String("error", sanitizeError(err, cfg.ClickHousePassword)),
				slog.String("addr", cfg.ClickHouseAddr),
			)
			os.Exit(1)
		}
		clickStore = clickHouse
		healthHandler.WithCheck("clickhouse", clickHouse)
		logger.Info("click records stored in ClickHouse", "addr", cfg.ClickHouseAddr)
	}

	var resolver geo.Resolver = geo.UnknownResolver{}
	var geoDB *geo.GeoIPResolver
	if cfg.GeoIPDBPath != "" {
		geoDB, err = geo.Open(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn("geoip database unavailable, locations will be Unknown",
				slog.String("path", cfg.GeoIPDBPath),
				slog.String("error", err.Error()),
			)
		} else {
			resolver = geoDB
		}
	}

	var verifier service.IdentityVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			logger.Error("failed to create Google token verifier", "error", err)
			os.Exit(1)
		}
		verifier = googleVerifier
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
	}

	recorder := metrics.NewInMemory()
	aliases := repository.NewAliasRepository(repo)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	linkService := service.NewLinkService(aliases, clickStore, cacheClient, resolver, cfg.BaseURL, logger, recorder)
	analyticsService := service.NewAnalyticsService(aliases, clickStore, cacheClient, logger, recorder)
	authService := service.NewAuthService(repo, verifier, tokens, logger)

	r := setupRouter(routerDeps{
		handler:       handler.New(version),
		health:        healthHandler,
		metrics:       handler.NewMetricsHandler(recorder),
		analytics:     handler.NewAnalyticsHandler(analyticsService, logger),
		links:         handler.NewLinkHandler(linkService, logger),
		redirect:      handler.NewRedirectHandler(linkService, logger),
		signIn:        handler.NewAuthHandler(authService, logger),
		authenticator: authService,
		limiter:       cacheClient,
		cfg:           cfg,
		logger:        logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Closed in reverse order.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	if clickHouse != nil {
		srv.OnShutdown("clickhouse", func(ctx context.Context) error {
			return clickHouse.Close()
		})
	}
	if geoDB != nil {
		srv.OnShutdown("geoip", func(ctx context.Context) error {
			return geoDB.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"click_store", cfg.ClickStore,
		"version", version,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openClickHouse connects to ClickHouse and applies its migrations.
func openClickHouse(ctx context.Context, cfg *config.Config) (*repository.ClickHouseStore, error) {
	store, err := repository.NewClickHouse(ctx, repository.ClickHouseConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "alter")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
