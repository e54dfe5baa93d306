// Package graceful ties process lifetime to OS termination signals.
package graceful

import (
	"context"
	"os/signal"
	"syscall"
)

// Context returns a child of ctx that is canceled when the process receives
// SIGINT or SIGTERM, allowing a clean shutdown. The returned CancelFunc
// releases the signal registration.
func Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
