package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abhms/alter/internal/handler/dto"
	"github.com/abhms/alter/internal/service"
)

// SignInService exchanges third-party tokens for session tokens.
type SignInService interface {
	GoogleSignIn(ctx context.Context, idToken string) (*service.SignInResult, error)
}

// AuthHandler handles sign-in requests.
type AuthHandler struct {
	svc    SignInService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc SignInService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger.With("component", "handler.auth"),
	}
}

// GoogleSignIn handles POST /api/auth/google-signin.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Token is required")
		return
	}

	res, err := h.svc.GoogleSignIn(r.Context(), req.Token)
	if err != nil {
		status, code := statusForError(err)
		switch status {
		case http.StatusUnauthorized:
			writeError(w, status, code, "Invalid Google token")
		case http.StatusInternalServerError:
			h.logger.Error("sign_in_error", slog.String("error", err.Error()))
			writeError(w, status, code, "Internal server error")
		default:
			writeError(w, status, code, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "Google Sign-In successful",
		Data:    dto.ToSignInData(res.User, res.Token),
	})
}
