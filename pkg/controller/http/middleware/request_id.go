package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/errlog/pkg/domain/types"
)

// RequestIDHeader carries the correlation id in and out.
const RequestIDHeader = "X-Request-Id"

// RequestID stores a correlation id in the request context, where
// middleware.GetReqID of chi can find it. A valid incoming X-Request-Id
// header is kept; otherwise a UUIDv7 is generated. The id is echoed in the
// response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := types.RequestID(r.Header.Get(RequestIDHeader))
		if !id.IsValid() {
			id = types.NewRequestID(r.Context())
		}

		w.Header().Set(RequestIDHeader, id.String())
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id.String())))
	})
}

// ContextWithRequestID adds a correlation id to the context
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, middleware.RequestIDKey, id)
}

// RequestIDFromContext extracts the correlation id from the context
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id := middleware.GetReqID(ctx)
	return id, id != ""
}
