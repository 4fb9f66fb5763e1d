package errlog

import (
	"net/http"

	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
)

// Next receives the normalized response from a Forwarder. The writer
// already carries resp.Status as a pending status code: it is sent on the
// first Write, or when Next returns without writing, unless Next calls
// WriteHeader with another code.
type Next func(w http.ResponseWriter, r *http.Request, resp failure.Response)

// Forwarder normalizes and logs errors like Handler but leaves writing the
// response to Next. The caller's error value is never modified; Next gets a
// fresh failure.Response that holds no internal fields.
type Forwarder struct {
	core *core
	next Next
}

// NewForwarder creates a Forwarder. Render options are ignored.
func NewForwarder(next Next, opts ...Option) (*Forwarder, error) {
	c, err := newCore(newConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Forwarder{core: c, next: next}, nil
}

// Log returns the sink of x so callers can log through it too, or nil when
// logging is disabled.
func (x *Forwarder) Log() Sink {
	return x.core.sink
}

// ServeError normalizes raw, logs it and calls Next.
func (x *Forwarder) ServeError(w http.ResponseWriter, r *http.Request, raw any) {
	_, resp := x.core.resolve(r, raw)
	pw := &pendingStatusWriter{ResponseWriter: w, status: resp.Status}
	x.next(pw, r, resp)
	if !pw.written {
		pw.WriteHeader(pw.status)
	}
}

// Wrap adapts fn into an http.Handler that sends errors to x.
func (x *Forwarder) Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			x.ServeError(w, r, err)
		}
	})
}

// pendingStatusWriter delays the status code until the first write.
type pendingStatusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *pendingStatusWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *pendingStatusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(w.status)
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the code that was or will be sent.
func (w *pendingStatusWriter) Status() int {
	return w.status
}

func (w *pendingStatusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
