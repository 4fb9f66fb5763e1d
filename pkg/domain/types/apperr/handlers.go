package apperr

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// StatusFromTags returns the HTTP status implied by the tags of err. ok is
// false when err carries no tag with a status mapping.
func StatusFromTags(err error) (int, bool) {
	switch {
	case goerr.HasTag(err, ErrTagNotFound):
		return http.StatusNotFound, true

	case goerr.HasTag(err, ErrTagValidation),
		goerr.HasTag(err, ErrTagInvalidInput):
		return http.StatusBadRequest, true

	case goerr.HasTag(err, ErrTagUnauthorized):
		return http.StatusUnauthorized, true

	case goerr.HasTag(err, ErrTagForbidden):
		return http.StatusForbidden, true

	case goerr.HasTag(err, ErrTagMethodNotAllowed):
		return http.StatusMethodNotAllowed, true

	case goerr.HasTag(err, ErrTagTimeout):
		return http.StatusRequestTimeout, true

	case goerr.HasTag(err, ErrTagConflict):
		return http.StatusConflict, true

	case goerr.HasTag(err, ErrTagRateLimit):
		return http.StatusTooManyRequests, true

	case goerr.HasTag(err, ErrTagExternal):
		return http.StatusBadGateway, true

	case goerr.HasTag(err, ErrTagUnavailable):
		return http.StatusServiceUnavailable, true

	case goerr.HasTag(err, ErrTagInternal),
		goerr.HasTag(err, ErrTagConfig):
		return http.StatusInternalServerError, true

	default:
		return 0, false
	}
}
