package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abhms/alter/internal/handler/dto"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/service"
)

func TestLinkHandler_Create(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeLinks{alias: &model.Alias{
		ID:          "01HX",
		CustomAlias: "docs",
		ShortURL:    "http://sho.rt/docs",
		TargetURL:   "https://example.com/docs",
		CreatedAt:   created,
	}}
	h := NewLinkHandler(svc, discardLogger())

	body := `{"longUrl":"https://example.com/docs","customAlias":"docs","topic":"go"}`
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/api/shorten", body, "user-1", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string              `json:"message"`
		Data    dto.CreatedShortURL `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Short URL created successfully" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Data.ShortURL != "http://sho.rt/docs" || !resp.Data.CreatedAt.Equal(created) {
		t.Errorf("unexpected data: %+v", resp.Data)
	}

	want := service.CreateShortURLInput{
		LongURL:     "https://example.com/docs",
		CustomAlias: "docs",
		Topic:       "go",
		OwnerID:     "user-1",
	}
	if svc.gotInput != want {
		t.Errorf("input = %+v, want %+v", svc.gotInput, want)
	}
}

func TestLinkHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, "Invalid request body"},
		{"missing url", `{}`, service.ErrLongURLRequired, http.StatusBadRequest, "longUrl is required"},
		{"alias taken", `{"longUrl":"https://a.b","customAlias":"x1y"}`, service.ErrAliasExists, http.StatusBadRequest, "Alias already in use. Please choose another one."},
		{"internal", `{"longUrl":"https://a.b"}`, errors.New("db down"), http.StatusInternalServerError, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLinkHandler(&fakeLinks{err: tt.err}, discardLogger())
			rec := httptest.NewRecorder()
			h.Create(rec, newRequest(http.MethodPost, "/api/shorten", tt.body, "user-1", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("expected %q, got %q", tt.wantError, resp.Error)
			}
		})
	}
}

func TestLinkHandler_Get(t *testing.T) {
	svc := &fakeLinks{details: &service.ShortURLDetails{
		Alias:       &model.Alias{ID: "01HX", CustomAlias: "docs", ShortURL: "http://sho.rt/docs", TargetURL: "https://example.com"},
		TotalClicks: 4,
		UniqueUsers: 2,
	}}
	h := NewLinkHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/shorten/docs", "", "user-1", map[string]string{"alias": "docs"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp dto.ShortURLResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalClicks != 4 || resp.UniqueUsers != 2 || resp.LongURL != "https://example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if svc.gotOwner != "user-1" {
		t.Errorf("expected owner user-1, got %q", svc.gotOwner)
	}
}

func TestLinkHandler_Get_NotFound(t *testing.T) {
	h := NewLinkHandler(&fakeLinks{err: service.ErrShortURLNotFound}, discardLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(http.MethodGet, "/api/shorten/nope", "", "user-1", map[string]string{"alias": "nope"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestLinkHandler_QRCode(t *testing.T) {
	svc := &fakeLinks{details: &service.ShortURLDetails{
		Alias: &model.Alias{CustomAlias: "docs", ShortURL: "http://sho.rt/docs"},
	}}
	h := NewLinkHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.QRCode(rec, newRequest(http.MethodGet, "/api/shorten/docs/qr", "", "user-1", map[string]string{"alias": "docs"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("expected image/png, got %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestLinkHandler_QRCode_OtherOwner(t *testing.T) {
	h := NewLinkHandler(&fakeLinks{err: service.ErrShortURLNotFound}, discardLogger())

	rec := httptest.NewRecorder()
	h.QRCode(rec, newRequest(http.MethodGet, "/api/shorten/docs/qr", "", "user-2", map[string]string{"alias": "docs"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
