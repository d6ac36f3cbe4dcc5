package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/abhms/alter/internal/auth"
	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRequest builds a request with chi URL params and an optional caller id.
func newRequest(method, target, body, userID string, params map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.ContextWithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

type fakeAnalytics struct {
	result *service.Result
	err    error
	gotKey string
}

func (f *fakeAnalytics) AliasAnalytics(_ context.Context, alias string) (*service.Result, error) {
	f.gotKey = alias
	return f.result, f.err
}

func (f *fakeAnalytics) TopicAnalytics(_ context.Context, topic string) (*service.Result, error) {
	f.gotKey = topic
	return f.result, f.err
}

func (f *fakeAnalytics) OwnerAnalytics(_ context.Context, ownerID string) (*service.Result, error) {
	f.gotKey = ownerID
	return f.result, f.err
}

type fakeLinks struct {
	alias    *model.Alias
	details  *service.ShortURLDetails
	err      error
	gotInput service.CreateShortURLInput
	gotOwner string
}

func (f *fakeLinks) CreateShortURL(_ context.Context, input service.CreateShortURLInput) (*model.Alias, error) {
	f.gotInput = input
	return f.alias, f.err
}

func (f *fakeLinks) GetShortURL(_ context.Context, _ string, ownerID string) (*service.ShortURLDetails, error) {
	f.gotOwner = ownerID
	return f.details, f.err
}

type fakeRedirector struct {
	target     string
	shortURL   string
	cacheHit   bool
	resolveErr error
	recordErr  error
	recorded   []service.RecordClickInput
}

func (f *fakeRedirector) ResolveRedirect(_ context.Context, _ string) (*service.Redirect, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &service.Redirect{TargetURL: f.target, ShortURL: f.shortURL, CacheHit: f.cacheHit}, nil
}

func (f *fakeRedirector) RecordClick(_ context.Context, input service.RecordClickInput) (*model.ClickRecord, error) {
	f.recorded = append(f.recorded, input)
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &model.ClickRecord{ShortURL: "http://sho.rt/" + input.Alias}, nil
}

type fakeSignIn struct {
	result *service.SignInResult
	err    error
}

func (f *fakeSignIn) GoogleSignIn(_ context.Context, _ string) (*service.SignInResult, error) {
	return f.result, f.err
}
