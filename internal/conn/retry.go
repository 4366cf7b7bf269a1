// internal/conn/retry.go
package conn

import (
	"context"
	"time"
)

// RetryPolicy is the single retry/backoff shape used by both the connect
// cycle and the supervised reconnect loop, so the two cannot drift apart.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Wait blocks for the policy delay or until the context is done.
func (p RetryPolicy) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
