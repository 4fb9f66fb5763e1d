package types

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/errlog/pkg/utils/errors"
	"github.com/m-mizutani/goerr/v2"
)

// newUUID returns a UUIDv7, which sorts by creation time
func newUUID(ctx context.Context) string {
	id, err := uuid.NewV7()
	if err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to generate uuid V7, fallback to V4"))
		return uuid.New().String()
	}

	return id.String()
}
