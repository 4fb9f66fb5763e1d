package apperr

import "github.com/m-mizutani/goerr/v2"

// Client errors (HTTP 4xx)
var (
	ErrTagNotFound         = goerr.NewTag("not_found")
	ErrTagValidation       = goerr.NewTag("validation")
	ErrTagInvalidInput     = goerr.NewTag("invalid_input")
	ErrTagUnauthorized     = goerr.NewTag("unauthorized")
	ErrTagForbidden        = goerr.NewTag("forbidden")
	ErrTagConflict         = goerr.NewTag("conflict")
	ErrTagMethodNotAllowed = goerr.NewTag("method_not_allowed")
	ErrTagTimeout          = goerr.NewTag("timeout")
	ErrTagRateLimit        = goerr.NewTag("rate_limit")
)

// Server errors (HTTP 5xx)
var (
	ErrTagInternal    = goerr.NewTag("internal")
	ErrTagExternal    = goerr.NewTag("external")
	ErrTagUnavailable = goerr.NewTag("unavailable")
	ErrTagConfig      = goerr.NewTag("config")
)
