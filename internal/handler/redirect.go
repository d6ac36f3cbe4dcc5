package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/service"
)

// Redirector resolves aliases and records clicks.
type Redirector interface {
	ResolveRedirect(ctx context.Context, alias string) (*service.Redirect, error)
	RecordClick(ctx context.Context, input service.RecordClickInput) (*model.ClickRecord, error)
}

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	svc    Redirector
	logger *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(svc Redirector, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Redirect handles GET /{alias}. Every successful redirect appends a click
// record before the response is written.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")
	if alias == "" {
		h.writeError(w, http.StatusNotFound, codeNotFound, "Short URL not found")
		return
	}

	start := time.Now()

	resolved, err := h.svc.ResolveRedirect(r.Context(), alias)
	if err != nil {
		h.handleRedirectError(w, alias, err, time.Since(start))
		return
	}

	_, err = h.svc.RecordClick(r.Context(), service.RecordClickInput{
		Alias:     alias,
		ShortURL:  resolved.ShortURL,
		ViewerID:  auth.UserIDFromContext(r.Context()),
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: getClientIP(r),
	})
	if err != nil {
		h.handleRedirectError(w, alias, err, time.Since(start))
		return
	}

	duration := time.Since(start)
	h.logger.Info("redirect_success",
		"alias", alias,
		"cache_hit", resolved.CacheHit,
		"authenticated", auth.UserIDFromContext(r.Context()) != "",
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	// Set security headers
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Cache-Control", "private, max-age=0")

	http.Redirect(w, r, resolved.TargetURL, http.StatusFound)
}

// handleRedirectError handles errors during redirect resolution.
func (h *RedirectHandler) handleRedirectError(w http.ResponseWriter, alias string, err error, duration time.Duration) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.logger.Info("redirect_not_found",
			"alias", alias,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusNotFound, codeNotFound, "Short URL not found")

	default:
		h.logger.Error("redirect_error",
			"alias", alias,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		h.writeError(w, http.StatusInternalServerError, codeInternal, "An internal error occurred")
	}
}

// writeError writes a JSON error response for redirect failures.
func (h *RedirectHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	// Set security headers even on errors
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=0")

	writeError(w, status, code, message)
}

// getClientIP extracts the client IP address from the request.
func getClientIP(r *http.Request) string {
	// Check Cloudflare header first
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	// Check X-Forwarded-For
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// Take the first IP in the chain
		first, _, _ := strings.Cut(ip, ",")
		return strings.TrimSpace(first)
	}
	// Check X-Real-IP
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	// Fall back to RemoteAddr without the port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
