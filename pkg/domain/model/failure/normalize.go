package failure

import (
	"log/slog"
	"reflect"
	"strconv"
)

// Request describes the failing inbound request.
type Request struct {
	Method string
	URL    string
	// ID is the correlation id of the request. Empty means absent.
	ID string
}

// LogValue returns the request as a slog group.
func (x Request) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("method", x.Method),
		slog.String("url", x.URL),
	}
	if x.ID != "" {
		attrs = append(attrs, slog.String("id", x.ID))
	}
	return slog.GroupValue(attrs...)
}

// Response is the client facing error record.
type Response struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// Input converts an already normalized response back into a structured
// error. Normalizing it again yields the same status and message.
func (x Response) Input() *Structured {
	return &Structured{
		Status:  StatusNumber(x.Status),
		Message: x.Message,
		Details: x.Details,
	}
}

// Normalizer resolves raw error values into responses.
type Normalizer struct {
	namer Namer
}

// NewNormalizer creates a Normalizer. A nil namer means DefaultNamer.
func NewNormalizer(namer Namer) *Normalizer {
	if namer == nil {
		namer = DefaultNamer
	}
	return &Normalizer{namer: namer}
}

// Name returns the canonical name of code.
func (x *Normalizer) Name(code int) string {
	return x.namer(code)
}

// Normalize resolves in with the net/http status names.
func Normalize(in Input, req Request) Response {
	return defaultNormalizer.Normalize(in, req)
}

var defaultNormalizer = NewNormalizer(DefaultNamer)

// Normalize resolves in into a Response. It never fails: malformed input,
// including nil, resolves to 500 and the name of 500.
func (x *Normalizer) Normalize(in Input, req Request) Response {
	status, message, synthesized := x.resolve(in)

	if !validStatus(status) {
		status = 500
		// "Unknown status N" described a status that is no longer reported
		if synthesized {
			message = ""
		}
	}

	if message == "" {
		message = x.namer(status)
	}
	if message == "" {
		message = unknownError
	}

	resp := Response{
		Status:    status,
		Message:   message,
		RequestID: req.ID,
	}
	if s, ok := in.(*Structured); ok && s != nil && truthy(s.Details) {
		resp.Details = s.Details
	}
	return resp
}

// resolve applies the per variant status and message precedence. synthesized
// reports that message was generated for an unknown status shorthand.
func (x *Normalizer) resolve(in Input) (status int, message string, synthesized bool) {
	status = 500
	message = x.namer(500)

	switch v := in.(type) {
	case StatusCode:
		status = int(v)
		if name := x.namer(status); name != "" {
			message = name
		} else {
			message = "Unknown status " + strconv.Itoa(status)
			synthesized = true
		}

	case Message:
		if v != "" {
			message = string(v)
		}

	case *Structured:
		if v == nil {
			return status, message, false
		}

		switch st := v.Status.(type) {
		case StatusNumber:
			status = int(st)
			message = x.namer(status)
		case StatusText:
			if st != "" {
				if n, ok := parseStatus(string(st)); ok {
					status = n
				} else {
					status = 500
				}
				message = x.namer(status)
			}
		}

		switch m := v.Message.(type) {
		case string:
			message = m
		default:
			// false, 0 and other falsy values keep the status name
			if truthy(m) {
				message, _ = stringify(m)
			}
		}
	}

	return status, message, synthesized
}

// truthy reports whether v would count as present: nil, false, zero numbers
// and empty strings do not.
func truthy(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && f == f
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
