package secondary

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and bounded sleeps so the PIN poll
// loop can be tested without real delay.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning ctx.Err in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
