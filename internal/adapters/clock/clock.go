// Package clock provides the real time source.
package clock

import (
	"context"
	"time"

	"github.com/example/renewbot/internal/ports/secondary"
)

// System implements secondary.Clock with the wall clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// Sleep blocks for d or until the context is cancelled.
func (System) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure System implements the interface
var _ secondary.Clock = System{}
