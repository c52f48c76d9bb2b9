package aml

import (
	"context"
	"time"

	"github.com/kompox/amlops/internal/logging"
)

// withMethodLogger implements the Span pattern for AML driver logging.
// It emits a START log line and returns a context with logger attributes attached,
// plus a cleanup function to emit the END:OK or END:FAILED log line.
//
// Usage:
//
//	ctx, cleanup := d.withMethodLogger(ctx, "WorkspaceCreate")
//	defer func() { cleanup(err) }()
//
// Log message format:
// - START:  AML:<method>:START (with driver in logger attributes)
// - END:    AML:<method>:END:OK or AML:<method>:END:FAILED (with err, elapsed in logger attributes)
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("driver", "AML."+method)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "AML:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "AML:"+method+":END:OK", "err", "", "elapsed", elapsed)
			return
		}
		errStr := azureShorterErrorString(err)
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "AML:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}
