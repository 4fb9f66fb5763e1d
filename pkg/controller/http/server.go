package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/errlog/pkg/controller/http/errlog"
	"github.com/m-mizutani/errlog/pkg/controller/http/middleware"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/utils/safe"
)

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	errors         *errlog.Handler
	metricsHandler http.Handler
}

// Options is a functional option for Server
type Options func(*Server)

// WithErrorHandler sets the handler writing error responses
func WithErrorHandler(h *errlog.Handler) Options {
	return func(s *Server) {
		s.errors = h
	}
}

// WithMetricsHandler exposes h on /metrics
func WithMetricsHandler(h http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// New creates a new HTTP server
func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errors == nil {
		s.errors = errlog.Default()
	}

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)
	r.Use(s.errors.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.errors.ServeError(w, r, failure.StatusCode(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.errors.ServeError(w, r, failure.StatusCode(http.StatusMethodNotAllowed))
	})

	// Endpoints raising each kind of error
	r.Route("/fail", func(r chi.Router) {
		r.Method(http.MethodGet, "/status/{code}", s.errors.Wrap(failStatus))
		r.Method(http.MethodGet, "/message/{text}", s.errors.Wrap(failMessage))
		r.Method(http.MethodGet, "/structured", s.errors.Wrap(failStructured))
		r.Method(http.MethodPost, "/structured", s.errors.Wrap(failStructuredBody))
		r.Get("/panic", failPanic)
	})

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
