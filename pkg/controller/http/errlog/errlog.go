// Package errlog turns errors raised while handling HTTP requests into
// normalized error responses, and logs one line per failed request.
//
// Handler writes the response itself as JSON or as a rendered view.
// Forwarder hands the normalized response to the next handler instead.
package errlog

import (
	"bytes"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/utils/errors"
	"github.com/m-mizutani/errlog/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type config struct {
	render    bool
	renderer  Renderer
	logger    any
	loggerSet bool
	namer     failure.Namer
	metrics   *Metrics
	requestID func(*http.Request) string
	now       func() time.Time
}

// Option configures a Handler or a Forwarder.
type Option func(*config)

// WithRender makes the Handler write a rendered view instead of JSON.
func WithRender(enable bool) Option {
	return func(c *config) {
		c.render = enable
	}
}

// WithRenderer sets the view used when rendering is enabled.
func WithRenderer(renderer Renderer) Option {
	return func(c *config) {
		c.renderer = renderer
	}
}

// WithLogger sets where log lines go. Accepted values are a func(string),
// a Sink, a *slog.Logger, an io.Writer (lines are prefixed with an ISO-8601
// timestamp) and nil or false, which disable logging. Any other value makes
// New fail. Without this option lines are written to os.Stderr.
func WithLogger(logger any) Option {
	return func(c *config) {
		c.logger = logger
		c.loggerSet = true
	}
}

// WithoutLog disables logging.
func WithoutLog() Option {
	return WithLogger(false)
}

// WithNamer replaces the status name table.
func WithNamer(namer failure.Namer) Option {
	return func(c *config) {
		c.namer = namer
	}
}

// WithMetrics counts every normalized response.
func WithMetrics(metrics *Metrics) Option {
	return func(c *config) {
		c.metrics = metrics
	}
}

// WithRequestID replaces how the correlation id is read from a request. By
// default it is the id stored by the request id middleware.
func WithRequestID(fn func(*http.Request) string) Option {
	return func(c *config) {
		c.requestID = fn
	}
}

// WithClock sets the time source of timestamped writer logs.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		requestID: requestIDFromContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.loggerSet {
		cfg.logger = os.Stderr
	}
	return cfg
}

// core is shared by Handler and Forwarder: it resolves the response and
// emits the log entry.
type core struct {
	normalizer *failure.Normalizer
	sink       Sink
	metrics    *Metrics
	requestID  func(*http.Request) string
}

func newCore(cfg *config) (*core, error) {
	sink, err := toSink(cfg.logger, cfg.now)
	if err != nil {
		return nil, err
	}

	return &core{
		normalizer: failure.NewNormalizer(cfg.namer),
		sink:       sink,
		metrics:    cfg.metrics,
		requestID:  cfg.requestID,
	}, nil
}

// RequestFrom describes r with the original request URI and the id from
// the request id middleware.
func RequestFrom(r *http.Request) failure.Request {
	return describe(r, requestIDFromContext)
}

func requestIDFromContext(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

func describe(r *http.Request, requestID func(*http.Request) string) failure.Request {
	url := r.RequestURI
	if url == "" && r.URL != nil {
		url = r.URL.RequestURI()
	}

	req := failure.Request{
		Method: r.Method,
		URL:    url,
	}
	if requestID != nil {
		req.ID = requestID(r)
	}
	return req
}

func (x *core) resolve(r *http.Request, raw any) (failure.Input, failure.Response) {
	in := failure.FromValue(raw)
	req := describe(r, x.requestID)
	resp := x.normalizer.Normalize(in, req)

	x.metrics.observe(req, resp)
	if x.sink != nil {
		x.sink.Emit(r.Context(), Entry{
			Line:     failure.FormatLine(req, resp, in),
			Request:  req,
			Response: resp,
			Input:    in,
		})
	}

	return in, resp
}

// Handler writes normalized error responses.
type Handler struct {
	core     *core
	render   bool
	renderer Renderer
}

// New creates a Handler. It fails only when the logger option is invalid.
func New(opts ...Option) (*Handler, error) {
	cfg := newConfig(opts)

	c, err := newCore(cfg)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		core:     c,
		render:   cfg.render,
		renderer: cfg.renderer,
	}
	if h.render && h.renderer == nil {
		h.renderer = defaultRenderer()
	}
	return h, nil
}

// Log returns the sink of h, or nil when logging is disabled.
func (x *Handler) Log() Sink {
	return x.core.sink
}

// ServeError normalizes raw, logs it and writes the response. raw may be
// any value: a failure.Input, an error, an int status, a string message, a
// recovered panic or nil.
func (x *Handler) ServeError(w http.ResponseWriter, r *http.Request, raw any) {
	_, resp := x.core.resolve(r, raw)

	if x.render {
		var buf bytes.Buffer
		if err := x.renderer.Render(&buf, resp); err != nil {
			errors.Handle(r.Context(), goerr.Wrap(err, "failed to render error view",
				goerr.V("status", resp.Status),
			))
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(resp.Status)
			safe.Write(r.Context(), w, buf.Bytes())
			return
		}
	}

	render.Status(r, resp.Status)
	render.JSON(w, r, resp)
}

// HandlerFunc is an http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts fn into an http.Handler that sends errors to x.
func (x *Handler) Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			x.ServeError(w, r, err)
		}
	})
}

// Recoverer is a middleware sending recovered panics to x. A panic value
// is treated like a returned error, so panic(404) responds with 404.
func (x *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			x.ServeError(w, r, withStack(rec, debug.Stack()))
		}()
		next.ServeHTTP(w, r)
	})
}

// withStack attaches stack to structured panic values that have none.
func withStack(rec any, stack []byte) any {
	s, ok := failure.FromValue(rec).(*failure.Structured)
	if !ok {
		return rec
	}
	cp := *s
	if cp.Err == nil {
		cp.Err = goerr.New("panic recovered", goerr.V("recover", rec))
	}
	if cp.Stack == "" {
		cp.Stack = string(stack)
	}
	return &cp
}

var defaultHandler = sync.OnceValue(func() *Handler {
	h, err := New()
	if err != nil {
		// unreachable: the default logger is os.Stderr
		panic(err)
	}
	return h
})

// Default returns the process wide Handler. It is created with no options
// on first use and never changes afterwards. Prefer injecting a Handler
// built with New.
func Default() *Handler {
	return defaultHandler()
}

// HandleError serves raw with the Default handler.
func HandleError(w http.ResponseWriter, r *http.Request, raw any) {
	Default().ServeError(w, r, raw)
}
