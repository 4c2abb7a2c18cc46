package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in its own goroutine, detached from the caller's
// cancellation. Webhook deliveries must be acknowledged quickly while the
// build they trigger keeps running, so the handler gets a fresh background
// context that only inherits the logger. Panics are recovered and logged,
// as is any error the handler returns.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	detached := ctxlog.With(context.Background(), ctxlog.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(detached).Error("panic in dispatched handler",
					"recover", r,
					"stack", string(debug.Stack()))
			}
		}()

		if err := handler(detached); err != nil {
			ctxlog.From(detached).Error("error in dispatched handler", "error", err)
		}
	}()
}
