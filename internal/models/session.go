package models

import "time"

// AuthSession is the portal session handed from the session manager to
// the extension workflow. It is only ever constructed by the session
// manager; the workflow reads it and never mutates it.
type AuthSession struct {
	ID            string // portal session id (sess_id)
	CustomerID    string // empty until the PIN challenge exposes it
	Authenticated bool
}

// ChallengeKind distinguishes the two out-of-band PIN challenges.
type ChallengeKind string

const (
	ChallengeLoginPin     ChallengeKind = "login_pin"
	ChallengeExtensionPin ChallengeKind = "extension_pin"
)

// Challenge is a transient record of a pending PIN challenge. It is
// resolved by polling the mailbox until a matching message appears or
// the deadline elapses.
type Challenge struct {
	Kind      ChallengeKind
	SessionID string
	CreatedAt time.Time
}
