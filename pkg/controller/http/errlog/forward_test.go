package errlog_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/errlog/pkg/controller/http/errlog"
	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/errlog/pkg/domain/types/apperr"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestForwarder(t *testing.T) {
	var (
		lines []string
		got   failure.Response
	)

	fw, err := errlog.NewForwarder(func(w http.ResponseWriter, r *http.Request, resp failure.Response) {
		got = resp
		_ = json.NewEncoder(w).Encode(map[string]any{"error": resp})
	}, errlog.WithLogger(func(line string) {
		lines = append(lines, line)
	}))
	gt.NoError(t, err).Required()

	t.Run("pending status is applied on first write", func(t *testing.T) {
		lines = nil
		rec := httptest.NewRecorder()
		fw.ServeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), 404)

		gt.Equal(t, rec.Code, http.StatusNotFound)
		gt.Equal(t, got, failure.Response{Status: 404, Message: "Not Found"})
		gt.Equal(t, lines, []string{"GET /x (404) - Not Found"})
	})

	t.Run("caller error is not modified", func(t *testing.T) {
		orig := &failure.Structured{
			Status:  failure.StatusNumber(409),
			Details: []string{"dup"},
			Cause:   errors.New("unique violation"),
		}
		fw.ServeError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), orig)

		gt.Equal(t, got.Status, 409)
		gt.Equal(t, got.Details, any([]string{"dup"}))
		gt.Equal(t, orig.Status, failure.Status(failure.StatusNumber(409)))
		gt.V(t, orig.Cause).NotNil()
		gt.V(t, orig.Details).NotNil()
	})

	t.Run("goerr values are not forwarded", func(t *testing.T) {
		err := goerr.New("denied",
			goerr.V(apperr.StatusKey, 403),
			goerr.V(apperr.CauseKey, errors.New("token expired")),
		)
		fw.ServeError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), err)
		gt.Equal(t, got, failure.Response{Status: 403, Message: "denied"})
	})

	t.Run("exposes its sink", func(t *testing.T) {
		lines = nil
		fw.Log().Emit(t.Context(), errlog.Entry{Line: "reused"})
		gt.Equal(t, lines, []string{"reused"})
	})
}

func TestForwarderNextOverridesStatus(t *testing.T) {
	fw, err := errlog.NewForwarder(func(w http.ResponseWriter, r *http.Request, resp failure.Response) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(resp.Message))
	}, errlog.WithoutLog())
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	fw.ServeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), "soft failure")
	gt.Equal(t, rec.Code, http.StatusOK)
	gt.Equal(t, rec.Body.String(), "soft failure")
}

func TestForwarderWrap(t *testing.T) {
	var got failure.Response
	fw, err := errlog.NewForwarder(func(w http.ResponseWriter, r *http.Request, resp failure.Response) {
		got = resp
	}, errlog.WithoutLog())
	gt.NoError(t, err).Required()

	handler := fw.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return failure.StatusCode(http.StatusGone)
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	gt.Equal(t, got.Status, http.StatusGone)
	gt.Equal(t, got.Message, "Gone")
}

func TestForwarderStatusSentWithoutWrite(t *testing.T) {
	fw, err := errlog.NewForwarder(func(http.ResponseWriter, *http.Request, failure.Response) {}, errlog.WithoutLog())
	gt.NoError(t, err).Required()

	t.Run("recorder", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fw.ServeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), 404)
		gt.Equal(t, rec.Code, http.StatusNotFound)
	})

	t.Run("real server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fw.ServeError(w, r, failure.StatusCode(http.StatusConflict))
		}))
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, resp.StatusCode, http.StatusConflict)
	})
}

func TestForwarderInvalidLogger(t *testing.T) {
	_, err := errlog.NewForwarder(func(http.ResponseWriter, *http.Request, failure.Response) {}, errlog.WithLogger(3.14))
	gt.True(t, errors.Is(err, apperr.ErrInvalidLogger))
}
