package errors

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error that can not be returned to a caller, such as a
// failure while writing an error response that has already started
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	ctxlog.From(ctx).Error("unhandled error", "error", err)
}
