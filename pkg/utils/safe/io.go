package safe

import (
	"context"
	"io"

	"github.com/m-mizutani/errlog/pkg/utils/errors"
	"github.com/m-mizutani/goerr/v2"
)

// Close closes c and logs the error, if any
func Close(ctx context.Context, c io.Closer) {
	if err := c.Close(); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to close by safe.Close"))
	}
}

// Write writes data to w and logs the error, if any. Used once the status
// line has been sent and there is nobody left to report to.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if _, err := w.Write(data); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to write by safe.Write",
			goerr.V("size", len(data)),
		))
	}
}
