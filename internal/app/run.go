package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

type runIDKey struct{}

// WithRunID returns a context carrying the given run id.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id carried by ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// ensureRunID returns ctx with a run id, generating one if ctx has none.
func ensureRunID(ctx context.Context) (context.Context, string) {
	if id := RunID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRunID(ctx, id), id
}

// runLogger tags logger with the run id of ctx.
func runLogger(ctx context.Context, logger ports.Logger) ports.Logger {
	if id := RunID(ctx); id != "" {
		return log.With(logger, log.String("run_id", id))
	}
	return logger
}
