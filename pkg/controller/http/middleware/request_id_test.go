package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/errlog/pkg/controller/http/middleware"
	"github.com/m-mizutani/gt"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.RequestIDFromContext(r.Context())
		gt.True(t, ok)
		seen = id
	}))

	t.Run("generates uuid when header is missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		parsed, err := uuid.Parse(seen)
		gt.NoError(t, err)
		gt.Equal(t, parsed.Version(), uuid.Version(7))
		gt.Equal(t, rec.Header().Get(middleware.RequestIDHeader), seen)
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gt.Equal(t, seen, "abc-123")
		gt.Equal(t, rec.Header().Get(middleware.RequestIDHeader), "abc-123")
	})

	t.Run("replaces oversized incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, strings.Repeat("a", 200))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		_, err := uuid.Parse(seen)
		gt.NoError(t, err)
	})

	t.Run("replaces id with control characters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc\tdef")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		_, err := uuid.Parse(seen)
		gt.NoError(t, err)
	})
}

func TestRequestIDFromContextMissing(t *testing.T) {
	_, ok := middleware.RequestIDFromContext(t.Context())
	gt.False(t, ok)
}
