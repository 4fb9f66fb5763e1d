package apperr

import "github.com/m-mizutani/goerr/v2"

// Configuration errors
var (
	ErrInvalidLogger = goerr.New("the logger option must be a function, a writer, a slog logger or false",
		goerr.T(ErrTagConfig)).ID("ERR_INVALID_LOGGER")

	ErrInvalidStatusNames = goerr.New("invalid status name table",
		goerr.T(ErrTagConfig)).ID("ERR_INVALID_STATUS_NAMES")
)
