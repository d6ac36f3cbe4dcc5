package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/service"
)

// AnalyticsProvider serves serialized analytics snapshots.
type AnalyticsProvider interface {
	AliasAnalytics(ctx context.Context, alias string) (*service.Result, error)
	TopicAnalytics(ctx context.Context, topic string) (*service.Result, error)
	OwnerAnalytics(ctx context.Context, ownerID string) (*service.Result, error)
}

// AnalyticsHandler handles analytics API requests.
type AnalyticsHandler struct {
	svc    AnalyticsProvider
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc AnalyticsProvider, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:    svc,
		logger: logger.With("component", "handler.analytics"),
	}
}

// GetAliasAnalytics handles GET /api/analytics/{alias}.
func (h *AnalyticsHandler) GetAliasAnalytics(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")
	if alias == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Alias is required")
		return
	}

	res, err := h.svc.AliasAnalytics(r.Context(), alias)
	h.respond(w, r, "alias", alias, res, err, "Short URL not found")
}

// GetTopicAnalytics handles GET /api/analytics/topic/{topic}.
func (h *AnalyticsHandler) GetTopicAnalytics(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Topic is required")
		return
	}

	res, err := h.svc.TopicAnalytics(r.Context(), topic)
	h.respond(w, r, "topic", topic, res, err, "No URLs found for this topic")
}

// GetOverallAnalytics handles GET /api/analytics/overall/summary for the caller.
func (h *AnalyticsHandler) GetOverallAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserIDFromContext(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "No token provided")
		return
	}

	res, err := h.svc.OwnerAnalytics(r.Context(), ownerID)
	h.respond(w, r, "owner", ownerID, res, err, "No URLs found for the user")
}

// respond writes a snapshot payload as is, or maps err to an error response.
func (h *AnalyticsHandler) respond(w http.ResponseWriter, r *http.Request, scope, key string, res *service.Result, err error, notFoundMsg string) {
	if err != nil {
		status, code := statusForError(err)
		switch status {
		case http.StatusNotFound:
			writeError(w, status, code, notFoundMsg)
		case http.StatusInternalServerError:
			h.logger.Error("analytics_error",
				slog.String("scope", scope),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			writeError(w, status, code, "Failed to fetch analytics")
		default:
			writeError(w, status, code, err.Error())
		}
		return
	}

	h.logger.Debug("analytics_served",
		slog.String("scope", scope),
		slog.String("key", key),
		slog.Bool("cache_hit", res.CacheHit),
	)

	cacheStatus := "MISS"
	if res.CacheHit {
		cacheStatus = "HIT"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Payload)
}
