package failure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type codedError struct {
	code int
}

func (x *codedError) Error() string   { return fmt.Sprintf("coded %d", x.code) }
func (x *codedError) StatusCode() int { return x.code }

func TestFromValue(t *testing.T) {
	t.Run("falsy map message keeps status name", func(t *testing.T) {
		for _, msg := range []any{false, float64(0)} {
			in := failure.FromValue(map[string]any{"status": float64(404), "message": msg})
			resp := failure.Normalize(in, failure.Request{})
			gt.Equal(t, resp.Status, 404)
			gt.Equal(t, resp.Message, "Not Found")
		}
	})

	t.Run("int becomes status shorthand", func(t *testing.T) {
		gt.Equal(t, failure.FromValue(404), failure.Input(failure.StatusCode(404)))
	})

	t.Run("string becomes message shorthand", func(t *testing.T) {
		gt.Equal(t, failure.FromValue("Uh-oh"), failure.Input(failure.Message("Uh-oh")))
	})

	t.Run("nil is malformed input", func(t *testing.T) {
		resp := failure.Normalize(failure.FromValue(nil), failure.Request{})
		gt.Equal(t, resp.Status, 500)
		gt.Equal(t, resp.Message, "Internal Server Error")
	})

	t.Run("unknown shape is malformed input", func(t *testing.T) {
		resp := failure.Normalize(failure.FromValue(struct{ A int }{A: 1}), failure.Request{})
		gt.Equal(t, resp.Status, 500)
		gt.Equal(t, resp.Message, "Internal Server Error")
	})

	t.Run("map carries structured fields", func(t *testing.T) {
		in := failure.FromValue(map[string]any{
			"status":  "404",
			"message": "Gone missing",
			"details": map[string]any{"id": 1},
			"error":   "db timeout",
		})
		s, ok := in.(*failure.Structured)
		gt.True(t, ok)
		gt.Equal(t, s.Cause.Error(), "db timeout")

		resp := failure.Normalize(in, failure.Request{})
		gt.Equal(t, resp.Status, 404)
		gt.Equal(t, resp.Message, "Gone missing")
		gt.V(t, resp.Details).NotNil()
	})

	t.Run("response is renormalized to itself", func(t *testing.T) {
		orig := failure.Response{Status: 409, Message: "Conflict"}
		resp := failure.Normalize(failure.FromValue(orig), failure.Request{})
		gt.Equal(t, resp, orig)
	})
}

func TestFromError(t *testing.T) {
	t.Run("plain error keeps message and defaults status", func(t *testing.T) {
		err := errors.New("boom")
		in := failure.FromError(err)
		s, ok := in.(*failure.Structured)
		gt.True(t, ok)
		gt.Equal(t, s.Err, err)

		resp := failure.Normalize(in, failure.Request{})
		gt.Equal(t, resp.Status, 500)
		gt.Equal(t, resp.Message, "boom")
	})

	t.Run("shorthand wrapped in error chain wins", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", failure.StatusCode(404))
		resp := failure.Normalize(failure.FromError(err), failure.Request{})
		gt.Equal(t, resp.Status, 404)
		gt.Equal(t, resp.Message, "Not Found")
	})

	t.Run("wrapped structured error records the outer error", func(t *testing.T) {
		inner := &failure.Structured{Status: failure.StatusNumber(422)}
		err := goerr.Wrap(inner, "validate user")
		s, ok := failure.FromError(err).(*failure.Structured)
		gt.True(t, ok)
		gt.Equal(t, s.Err, error(err))
		gt.Equal(t, s.Status, failure.Status(failure.StatusNumber(422)))
		gt.Equal(t, inner.Err, nil)
	})

	t.Run("goerr values provide status, details and cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := goerr.New("user not found",
			goerr.V(apperr.StatusKey, 404),
			goerr.V(apperr.DetailsKey, map[string]any{"user_id": "u1"}),
			goerr.V(apperr.CauseKey, cause),
		)
		s, ok := failure.FromError(err).(*failure.Structured)
		gt.True(t, ok)
		gt.Equal(t, s.Cause, cause)
		gt.V(t, s.Stack).NotEqual("")

		resp := failure.Normalize(s, failure.Request{})
		gt.Equal(t, resp.Status, 404)
		gt.Equal(t, resp.Message, "user not found")
		gt.V(t, resp.Details).NotNil()
	})

	t.Run("outer goerr values win over inner ones", func(t *testing.T) {
		inner := goerr.New("inner", goerr.V(apperr.StatusKey, 400))
		err := goerr.Wrap(inner, "outer", goerr.V(apperr.StatusKey, "409"))
		resp := failure.Normalize(failure.FromError(err), failure.Request{})
		gt.Equal(t, resp.Status, 409)
	})

	t.Run("goerr tag maps to status", func(t *testing.T) {
		err := goerr.New("no such thing", goerr.T(apperr.ErrTagNotFound))
		resp := failure.Normalize(failure.FromError(err), failure.Request{})
		gt.Equal(t, resp.Status, 404)
		gt.Equal(t, resp.Message, "no such thing")
	})

	t.Run("StatusCode method maps to status", func(t *testing.T) {
		err := fmt.Errorf("call: %w", &codedError{code: 502})
		resp := failure.Normalize(failure.FromError(err), failure.Request{})
		gt.Equal(t, resp.Status, 502)
		gt.Equal(t, resp.Message, "call: coded 502")
	})

	t.Run("nil error is malformed input", func(t *testing.T) {
		resp := failure.Normalize(failure.FromError(nil), failure.Request{})
		gt.Equal(t, resp.Status, 500)
	})
}
