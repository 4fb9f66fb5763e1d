package failure

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
)

// FromValue maps an arbitrary raised value, such as a returned error or a
// recovered panic, into an Input. Values that match no known shape,
// including nil, become an empty *Structured and resolve to 500.
func FromValue(v any) Input {
	switch x := v.(type) {
	case nil:
		return &Structured{}
	case Input:
		if s, ok := x.(*Structured); ok && s == nil {
			return &Structured{}
		}
		return x
	case Response:
		return x.Input()
	case *Response:
		if x == nil {
			return &Structured{}
		}
		return x.Input()
	case string:
		return Message(x)
	case error:
		return FromError(x)
	case map[string]any:
		return fromMap(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return StatusCode(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return StatusCode(rv.Uint())
	}

	return &Structured{}
}

// statusCoder is implemented by errors that know their own HTTP status.
type statusCoder interface {
	StatusCode() int
}

// httpStatuser is the same contract under another common name.
type httpStatuser interface {
	HTTPStatus() int
}

// FromError turns err into an Input. An Input anywhere in the chain wins.
// Otherwise the error becomes a *Structured whose message is err.Error() and
// whose status, details and cause come from goerr values, goerr tags or a
// StatusCode/HTTPStatus method, in that order.
func FromError(err error) Input {
	if err == nil {
		return &Structured{}
	}

	var in Input
	if errors.As(err, &in) {
		if s, ok := in.(*Structured); ok {
			if s == nil {
				return &Structured{}
			}
			if s.Err == nil && in != err {
				cp := *s
				cp.Err = err
				cp.Stack = stackOf(err)
				return &cp
			}
		}
		return in
	}

	s := &Structured{
		Message: err.Error(),
		Err:     err,
		Stack:   stackOf(err),
	}

	values := goerrValues(err)
	if st, ok := values[apperr.StatusKey]; ok {
		s.Status = statusOf(st)
	}
	if s.Status == nil {
		if code, ok := apperr.StatusFromTags(err); ok {
			s.Status = StatusNumber(code)
		}
	}
	if s.Status == nil {
		var sc statusCoder
		var hs httpStatuser
		switch {
		case errors.As(err, &sc):
			s.Status = StatusNumber(sc.StatusCode())
		case errors.As(err, &hs):
			s.Status = StatusNumber(hs.HTTPStatus())
		}
	}

	if details, ok := values[apperr.DetailsKey]; ok {
		s.Details = details
	}
	if cause, ok := values[apperr.CauseKey]; ok {
		s.Cause = causeOf(cause)
	}

	return s
}

func fromMap(m map[string]any) *Structured {
	s := &Structured{
		Message: m["message"],
		Details: m["details"],
	}
	if st, ok := m["status"]; ok {
		s.Status = statusOf(st)
	}
	if cause, ok := m["error"]; ok {
		s.Cause = causeOf(cause)
	}
	return s
}

// goerrValues collects values along the chain. Outer errors win over the
// errors they wrap.
func goerrValues(err error) map[string]any {
	values := map[string]any{}
	for e := err; e != nil; e = errors.Unwrap(e) {
		goErr, ok := e.(*goerr.Error)
		if !ok {
			continue
		}
		for k, v := range goErr.Values() {
			if _, exists := values[k]; !exists {
				values[k] = v
			}
		}
	}
	return values
}

// stackOf renders the stack trace recorded by goerr, if any.
func stackOf(err error) string {
	goErr := goerr.Unwrap(err)
	if goErr == nil {
		return ""
	}
	return fmt.Sprintf("%+v", goErr)
}

func statusOf(v any) Status {
	switch x := v.(type) {
	case nil:
		return nil
	case Status:
		return x
	case string:
		return StatusText(x)
	case fmt.Stringer:
		return StatusText(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return StatusNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return StatusNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return StatusNumber(int(rv.Float()))
	case reflect.Bool:
		if rv.Bool() {
			// truthy but not a number, and not parsable either
			return StatusText("true")
		}
		return nil
	}
	return StatusText(fmt.Sprint(v))
}

func causeOf(v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case error:
		return x
	case string:
		if x == "" {
			return nil
		}
		return errors.New(x)
	}
	if !truthy(v) {
		return nil
	}
	return fmt.Errorf("%v", v)
}
