package services

import (
	"context"
	"time"
)

// notifyTimeout bounds each delivery attempt of a notification.
const notifyTimeout = 10 * time.Second

// afterCommitContext keeps the request's values but not its cancellation, so a client
// hanging up cannot abort a notification for a write that already committed. The
// returned context still expires after timeout.
func afterCommitContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	detached := context.WithoutCancel(ctx)
	if timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, timeout)
}
