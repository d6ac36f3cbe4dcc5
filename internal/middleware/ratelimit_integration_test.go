//go:build integration

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/cache"
	"github.com/abhms/alter/internal/testutil"
)

func newRateLimitCache(t *testing.T) *cache.Cache {
	t.Helper()

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	cacheClient, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = cacheClient.Close()
	})

	if err := testutil.FlushRedis(ctx, cacheClient.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return cacheClient
}

// TestRateLimitUserConcurrency verifies the shorten budget holds under
// concurrent requests from one user.
func TestRateLimitUserConcurrency(t *testing.T) {
	cacheClient := newRateLimitCache(t)

	cfg := RateLimitConfig{
		Logger:         testLogger(),
		Limiter:        cacheClient,
		ShortenEnabled: true,
		ShortenMax:     5,
		ShortenWindow:  15 * time.Minute,
	}
	handler := RateLimitUser(cfg)(okHandler())

	var allowed, rejected int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/shorten", nil)
			req = req.WithContext(auth.ContextWithUserID(req.Context(), "concurrent-user"))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			switch rec.Code {
			case http.StatusOK:
				atomic.AddInt64(&allowed, 1)
			case http.StatusTooManyRequests:
				atomic.AddInt64(&rejected, 1)
			default:
				t.Errorf("unexpected status %d", rec.Code)
			}
		}()
	}
	wg.Wait()

	if allowed != 5 {
		t.Errorf("allowed = %d, want exactly 5", allowed)
	}
	if rejected != 15 {
		t.Errorf("rejected = %d, want 15", rejected)
	}
}

// TestIPRateLimitConcurrency verifies IP-based rate limiting under load.
func TestIPRateLimitConcurrency(t *testing.T) {
	cacheClient := newRateLimitCache(t)

	cfg := RateLimitConfig{
		Logger:          testLogger(),
		Limiter:         cacheClient,
		RedirectEnabled: true,
		RedirectRPS:     5,
		RedirectBurst:   3,
	}
	handler := RateLimitIP(cfg)(okHandler())

	var allowed, rejected int64
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/abc", nil)
			req.Header.Set("X-Forwarded-For", "192.168.1.100")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				atomic.AddInt64(&allowed, 1)
			} else {
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	t.Logf("IP rate limit: %d allowed, %d rejected", allowed, rejected)

	if rejected == 0 {
		t.Error("expected some requests to be rejected")
	}
}
