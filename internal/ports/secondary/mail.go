package secondary

import (
	"context"
	"time"

	"github.com/example/renewbot/internal/models"
)

// MailQuery describes one mailbox search.
type MailQuery struct {
	SubjectContains string
	Since           time.Time // on-or-after filter, zero means unbounded
	HeadersOnly     bool      // skip body fetch, Body stays empty
	NewestFirst     bool      // reverse mailbox-native order by date
}

// MailChannel is the read-only mailbox capability used for renewal
// discovery and for out-of-band PIN challenges. Implementations connect
// lazily and reuse the connection across searches within a run.
type MailChannel interface {
	// Search returns messages matching the query, in mailbox-native
	// order unless NewestFirst is set.
	Search(ctx context.Context, q MailQuery) ([]models.MailMessage, error)

	// Verify checks that the mailbox is reachable and the credentials
	// are accepted, without searching anything.
	Verify(ctx context.Context) error

	// Close releases the mailbox connection if one was opened.
	Close() error
}
