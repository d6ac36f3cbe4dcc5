package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/config"
	"github.com/abhms/alter/internal/handler"
	"github.com/abhms/alter/internal/metrics"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/service"
)

type stubServices struct {
	lastScope string
	lastKey   string
}

func (s *stubServices) AliasAnalytics(_ context.Context, alias string) (*service.Result, error) {
	s.lastScope, s.lastKey = "alias", alias
	return &service.Result{Payload: []byte(`{"totalClicks":0}`)}, nil
}

func (s *stubServices) TopicAnalytics(_ context.Context, topic string) (*service.Result, error) {
	s.lastScope, s.lastKey = "topic", topic
	return &service.Result{Payload: []byte(`{"totalClicks":0}`)}, nil
}

func (s *stubServices) OwnerAnalytics(_ context.Context, ownerID string) (*service.Result, error) {
	s.lastScope, s.lastKey = "owner", ownerID
	return &service.Result{Payload: []byte(`{"totalUrls":0}`)}, nil
}

func (s *stubServices) CreateShortURL(_ context.Context, input service.CreateShortURLInput) (*model.Alias, error) {
	return &model.Alias{CustomAlias: "abc1234", ShortURL: "http://sho.rt/abc1234", OwnerID: input.OwnerID, CreatedAt: time.Now()}, nil
}

func (s *stubServices) GetShortURL(_ context.Context, key, _ string) (*service.ShortURLDetails, error) {
	return &service.ShortURLDetails{Alias: &model.Alias{CustomAlias: key, ShortURL: "http://sho.rt/" + key}}, nil
}

func (s *stubServices) ResolveRedirect(_ context.Context, alias string) (*service.Redirect, error) {
	if alias == "missing" {
		return nil, service.ErrShortURLNotFound
	}
	return &service.Redirect{TargetURL: "https://example.com/" + alias, ShortURL: "http://sho.rt/" + alias}, nil
}

func (s *stubServices) RecordClick(_ context.Context, input service.RecordClickInput) (*model.ClickRecord, error) {
	s.lastScope, s.lastKey = "click", input.ViewerID
	return &model.ClickRecord{}, nil
}

func (s *stubServices) GoogleSignIn(_ context.Context, _ string) (*service.SignInResult, error) {
	return nil, service.ErrInvalidCredentials
}

// Authenticate accepts "valid-token" as user-1.
func (s *stubServices) Authenticate(_ context.Context, token string) (string, error) {
	if token == "valid-token" {
		return "user-1", nil
	}
	return "", service.ErrUnauthorized
}

type stubLimiter struct{}

func (stubLimiter) CheckUserRateLimit(context.Context, string, int, time.Duration) (*cache.RateLimitResult, error) {
	return nil, errors.New("unused")
}

func (stubLimiter) CheckIPRateLimit(context.Context, string, int, int) (*cache.RateLimitResult, error) {
	return nil, errors.New("unused")
}

func newTestRouter(t *testing.T) (http.Handler, *stubServices) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := &stubServices{}
	cfg := &config.Config{
		AppEnv:             "test",
		CORSAllowedOrigins: "*",
		MaxRequestBodySize: 1 << 20,
	}

	r := setupRouter(routerDeps{
		handler:       handler.New("test"),
		health:        handler.NewHealthHandler(nil, nil),
		metrics:       handler.NewMetricsHandler(metrics.NewInMemory()),
		analytics:     handler.NewAnalyticsHandler(svc, logger),
		links:         handler.NewLinkHandler(svc, logger),
		redirect:      handler.NewRedirectHandler(svc, logger),
		signIn:        handler.NewAuthHandler(svc, logger),
		authenticator: svc,
		limiter:       stubLimiter{},
		cfg:           cfg,
		logger:        logger,
	})
	return r, svc
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
		wantScope  string
		wantKey    string
	}{
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK, "", ""},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK, "", ""},
		{"topic analytics is public", http.MethodGet, "/api/analytics/topic/golang", "", "", http.StatusOK, "topic", "golang"},
		{"alias analytics needs token", http.MethodGet, "/api/analytics/abc", "", "", http.StatusUnauthorized, "", ""},
		{"alias analytics", http.MethodGet, "/api/analytics/abc", "", "valid-token", http.StatusOK, "alias", "abc"},
		{"overall analytics uses caller", http.MethodGet, "/api/analytics/overall/summary", "", "valid-token", http.StatusOK, "owner", "user-1"},
		{"overall analytics bad token", http.MethodGet, "/api/analytics/overall/summary", "", "nope", http.StatusUnauthorized, "", ""},
		{"shorten needs token", http.MethodPost, "/api/shorten", `{"longUrl":"https://a.b"}`, "", http.StatusUnauthorized, "", ""},
		{"shorten", http.MethodPost, "/api/shorten", `{"longUrl":"https://a.b"}`, "valid-token", http.StatusCreated, "", ""},
		{"get short url", http.MethodGet, "/api/shorten/abc", "", "valid-token", http.StatusOK, "", ""},
		{"qr code", http.MethodGet, "/api/shorten/abc/qr", "", "valid-token", http.StatusOK, "", ""},
		{"sign in rejected", http.MethodPost, "/api/auth/google-signin", `{"token":"x"}`, "", http.StatusUnauthorized, "", ""},
		{"anonymous redirect", http.MethodGet, "/abc", "", "", http.StatusFound, "click", ""},
		{"authenticated redirect", http.MethodGet, "/abc", "", "valid-token", http.StatusFound, "click", "user-1"},
		{"redirect bad token stays anonymous", http.MethodGet, "/abc", "", "nope", http.StatusFound, "click", ""},
		{"unknown alias", http.MethodGet, "/missing", "", "", http.StatusNotFound, "", ""},
		{"unknown route", http.MethodGet, "/a/b/c", "", "", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newTestRouter(t)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("%s %s: status = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantScope != "" && (svc.lastScope != tt.wantScope || svc.lastKey != tt.wantKey) {
				t.Errorf("service called with %s/%q, want %s/%q", svc.lastScope, svc.lastKey, tt.wantScope, tt.wantKey)
			}
		})
	}
}

func TestRouter_APISecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/topic/golang", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_UnauthorizedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/overall/summary", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "No token provided" {
		t.Errorf("error = %q, want %q", body["error"], "No token provided")
	}
}
