package errlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/errlog/pkg/utils/logging"
	"github.com/m-mizutani/errlog/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// Entry is one failed request as seen by a Sink.
type Entry struct {
	Line     string
	Request  failure.Request
	Response failure.Response
	Input    failure.Input
}

// Sink receives the log entry of every failed request before the response
// is sent.
type Sink interface {
	Emit(ctx context.Context, entry Entry)
}

// LogFunc adapts a plain line consumer into a Sink.
type LogFunc func(line string)

func (x LogFunc) Emit(_ context.Context, entry Entry) {
	x(entry.Line)
}

// WriterSink writes "<ISO-8601 time> - <line>\n" to an io.Writer. Lines from
// concurrent requests are never interleaved.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriterSink creates a WriterSink. A nil now means time.Now.
func NewWriterSink(w io.Writer, now func() time.Time) *WriterSink {
	if now == nil {
		now = time.Now
	}
	return &WriterSink{w: w, now: now}
}

const isoTimeFormat = "2006-01-02T15:04:05.000Z"

func (x *WriterSink) Emit(ctx context.Context, entry Entry) {
	data := []byte(x.now().UTC().Format(isoTimeFormat) + " - " + entry.Line + "\n")

	x.mu.Lock()
	defer x.mu.Unlock()
	safe.Write(ctx, x.w, data)
}

// SlogSink logs entries at error level with the request and response as
// attributes. Without a logger it uses the logger in the request context.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (x *SlogSink) Emit(ctx context.Context, entry Entry) {
	logger := x.logger
	if logger == nil {
		logger = ctxlog.From(ctx)
	}

	attrs := []any{
		slog.Any("request", entry.Request),
		slog.Int("status", entry.Response.Status),
		slog.String("message", entry.Response.Message),
	}
	if entry.Response.Details != nil {
		attrs = append(attrs, slog.Any("details", entry.Response.Details))
	}
	if s, ok := entry.Input.(*failure.Structured); ok && s != nil {
		if s.Err != nil {
			attrs = append(attrs, logging.ErrAttr(s.Err))
		}
		if s.Cause != nil {
			attrs = append(attrs, slog.Any("cause", s.Cause))
		}
	}

	logger.ErrorContext(ctx, entry.Line, attrs...)
}

// toSink converts a logger option value into a Sink. A nil Sink with a nil
// error means logging is disabled.
func toSink(v any, now func() time.Time) (Sink, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if !x {
			return nil, nil
		}
	case Sink:
		if isNilPointer(x) {
			break
		}
		return x, nil
	case func(string):
		if x == nil {
			return nil, nil
		}
		return LogFunc(x), nil
	case *slog.Logger:
		return NewSlogSink(x), nil
	case io.Writer:
		if isNilPointer(x) {
			break
		}
		return NewWriterSink(x, now), nil
	}

	return nil, goerr.Wrap(apperr.ErrInvalidLogger, "failed to configure error logger",
		goerr.V(apperr.OptionKey, "logger"),
		goerr.V(apperr.TypeKey, fmt.Sprintf("%T", v)),
	)
}

// isNilPointer reports a typed nil, e.g. (*WriterSink)(nil), that would
// only fail once a request is logged
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
