package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhms/alter/internal/service"
)

func TestRedirectHandler_RecordsClickAndRedirects(t *testing.T) {
	svc := &fakeRedirector{target: "https://example.com/landing", shortURL: "https://old.sho.rt/docs"}
	h := NewRedirectHandler(svc, discardLogger())

	req := newRequest(http.MethodGet, "/docs", "", "viewer-1", map[string]string{"alias": "docs"})
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone) Mobile")
	req.RemoteAddr = "203.0.113.9:51234"
	rec := httptest.NewRecorder()

	h.Redirect(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://example.com/landing" {
		t.Errorf("unexpected Location: %q", got)
	}
	if len(svc.recorded) != 1 {
		t.Fatalf("expected one click, got %d", len(svc.recorded))
	}

	want := service.RecordClickInput{
		Alias:     "docs",
		ShortURL:  "https://old.sho.rt/docs",
		ViewerID:  "viewer-1",
		UserAgent: "Mozilla/5.0 (iPhone) Mobile",
		IPAddress: "203.0.113.9",
	}
	if svc.recorded[0] != want {
		t.Errorf("recorded %+v, want %+v", svc.recorded[0], want)
	}
}

func TestRedirectHandler_NotFound(t *testing.T) {
	svc := &fakeRedirector{resolveErr: service.ErrShortURLNotFound}
	h := NewRedirectHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.Redirect(rec, newRequest(http.MethodGet, "/missing", "", "", map[string]string{"alias": "missing"}))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if len(svc.recorded) != 0 {
		t.Errorf("no click should be recorded for unknown aliases")
	}
}

func TestRedirectHandler_RecordFailure(t *testing.T) {
	svc := &fakeRedirector{target: "https://example.com", recordErr: errors.New("insert failed")}
	h := NewRedirectHandler(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.Redirect(rec, newRequest(http.MethodGet, "/docs", "", "", map[string]string{"alias": "docs"}))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "" {
		t.Errorf("failed redirect must not set Location")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "9.9.9.9:1", "1.1.1.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"}, "9.9.9.9:1", "2.2.2.2"},
		{"real ip", map[string]string{"X-Real-IP": "3.3.3.3"}, "9.9.9.9:1", "3.3.3.3"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"remote without port", nil, "9.9.9.9", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
