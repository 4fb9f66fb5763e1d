package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
)

// failStatus fails with the status shorthand taken from the path. A
// non-numeric code fails with the message shorthand instead.
func failStatus(w http.ResponseWriter, r *http.Request) error {
	code := chi.URLParam(r, "code")
	n, err := strconv.Atoi(code)
	if err != nil {
		return failure.Message("invalid status code: " + code)
	}
	return failure.StatusCode(n)
}

func failMessage(w http.ResponseWriter, r *http.Request) error {
	return failure.Message(chi.URLParam(r, "text"))
}

// failStructured builds a structured error from the query: status,
// message, details (JSON) and cause.
func failStructured(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	s := &failure.Structured{}
	if q.Has("status") {
		s.Status = failure.StatusText(q.Get("status"))
	}
	if q.Has("message") {
		s.Message = q.Get("message")
	}
	if raw := q.Get("details"); raw != "" {
		var details any
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			return goerr.Wrap(err, "invalid details",
				goerr.T(apperr.ErrTagInvalidInput),
				goerr.V(apperr.DetailsKey, map[string]any{"details": raw}),
			)
		}
		s.Details = details
	}
	if cause := q.Get("cause"); cause != "" {
		s.Cause = goerr.New(cause)
	}

	return s
}

// failStructuredBody reads a JSON object with status, message, details and
// error fields and raises it as is.
func failStructuredBody(w http.ResponseWriter, r *http.Request) error {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return goerr.Wrap(err, "failed to decode request body",
			goerr.T(apperr.ErrTagValidation),
		)
	}
	return failure.FromValue(body)
}

// failPanic panics with the value given by ?value=, as an int when it
// parses as one.
func failPanic(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if n, err := strconv.Atoi(value); err == nil {
		panic(n)
	}
	if value == "" {
		panic(goerr.New("panic requested"))
	}
	panic(value)
}
