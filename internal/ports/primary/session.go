// Package primary defines the primary ports (driving interfaces) for the application.
package primary

import (
	"context"

	"github.com/example/renewbot/internal/models"
)

// SessionService authenticates against the provider portal and yields
// an authenticated session, trying the cookie fast-path before a full
// credential login.
type SessionService interface {
	Login(ctx context.Context) (*models.AuthSession, error)
}

// PinResolver resolves an out-of-band PIN challenge by polling the
// mailbox until a matching message appears or the deadline elapses.
type PinResolver interface {
	Resolve(ctx context.Context, kind models.ChallengeKind) (string, error)
}
