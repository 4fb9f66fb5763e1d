package failure

import (
	"fmt"
	"strconv"
)

// Input is a raw error value raised while handling a request. It is sealed:
// StatusCode, Message and *Structured are the only implementations.
type Input interface {
	error
	isInput()
}

// StatusCode is the status shorthand, e.g. `return failure.StatusCode(404)`.
type StatusCode int

func (StatusCode) isInput() {}

func (x StatusCode) Error() string {
	return "status " + strconv.Itoa(int(x))
}

// Message is the message shorthand, e.g. `return failure.Message("Uh-oh")`.
type Message string

func (Message) isInput() {}

func (x Message) Error() string {
	return string(x)
}

// Status is the raw status field of a structured error. nil means absent.
type Status interface {
	isStatus()
}

// StatusNumber is a numeric status field.
type StatusNumber int

func (StatusNumber) isStatus() {}

// StatusText is a textual status field such as "404". It is parsed like
// a leading integer; unparsable text resolves to 500.
type StatusText string

func (StatusText) isStatus() {}

// Structured is an error carrying optional status, message, details and a
// secondary cause. Cause and Err are written to the log only and never sent
// to the client.
type Structured struct {
	Status  Status
	Message any
	Details any
	Cause   error

	// Err is the original error when the raw value was a real error.
	Err error
	// Stack is a captured stack trace of Err or of a recovered panic.
	Stack string
}

func (*Structured) isInput() {}

func (x *Structured) Error() string {
	if x == nil {
		return "<nil>"
	}
	if x.Err != nil {
		return x.Err.Error()
	}
	if msg, ok := stringify(x.Message); ok && msg != "" {
		return msg
	}
	switch v := x.Status.(type) {
	case StatusNumber:
		return "status " + strconv.Itoa(int(v))
	case StatusText:
		return "status " + string(v)
	}
	return "structured error"
}

func (x *Structured) Unwrap() error {
	if x == nil {
		return nil
	}
	return x.Err
}

// Errorf builds a structured error with a numeric status and a formatted message.
func Errorf(status int, format string, args ...any) *Structured {
	return &Structured{
		Status:  StatusNumber(status),
		Message: fmt.Sprintf(format, args...),
	}
}

// stringify converts a message field into text. ok is false when the field
// is absent.
func stringify(v any) (string, bool) {
	switch m := v.(type) {
	case nil:
		return "", false
	case string:
		return m, true
	case error:
		return m.Error(), true
	case fmt.Stringer:
		return m.String(), true
	default:
		return fmt.Sprint(m), true
	}
}
