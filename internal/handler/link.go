package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/handler/dto"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/service"
)

// LinkManager creates and inspects aliases.
type LinkManager interface {
	CreateShortURL(ctx context.Context, input service.CreateShortURLInput) (*model.Alias, error)
	GetShortURL(ctx context.Context, key, ownerID string) (*service.ShortURLDetails, error)
}

// LinkHandler handles HTTP requests for short URL operations.
type LinkHandler struct {
	svc    LinkManager
	logger *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc LinkManager, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/shorten.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShortURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateShortURLInput{
		LongURL:     req.LongURL,
		CustomAlias: req.CustomAlias,
		Topic:       req.Topic,
		OwnerID:     auth.UserIDFromContext(r.Context()),
	}

	alias, err := h.svc.CreateShortURL(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("alias_created",
		"alias_id", alias.ID,
		"alias", alias.CustomAlias,
		"topic", alias.Topic,
		"has_custom_alias", req.CustomAlias != "",
	)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: "Short URL created successfully",
		Data:    dto.ToCreatedShortURL(alias),
	})
}

// Get handles GET /api/shorten/{alias}.
func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "alias")
	if key == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Alias is required")
		return
	}

	details, err := h.svc.GetShortURL(r.Context(), key, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToShortURLResponse(details.Alias, details.TotalClicks, details.UniqueUsers))
}

// qrCodeSize is the edge length in pixels of generated QR codes.
const qrCodeSize = 256

// QRCode handles GET /api/shorten/{alias}/qr and returns a PNG QR code
// encoding the short URL.
func (h *LinkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "alias")
	if key == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Alias is required")
		return
	}

	details, err := h.svc.GetShortURL(r.Context(), key, auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	png, err := qrcode.Encode(details.Alias.ShortURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleServiceError maps service errors to HTTP responses.
func (h *LinkHandler) handleServiceError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)

	switch {
	case errors.Is(err, service.ErrAliasExists):
		writeError(w, status, code, "Alias already in use. Please choose another one.")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, status, code, "Short URL not found")
	case status == http.StatusInternalServerError:
		h.logger.Error("link service error", "error", err)
		writeError(w, status, code, "An internal error occurred")
	default:
		writeError(w, status, code, err.Error())
	}
}
