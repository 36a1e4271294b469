package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/renewbot/internal/core/discovery"
	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// defaultDiscoveryWindow is the trailing window searched for renewal
// notices.
const defaultDiscoveryWindow = 48 * time.Hour

// DiscoveryServiceImpl implements the DiscoveryService interface.
type DiscoveryServiceImpl struct {
	mail     secondary.MailChannel
	clock    secondary.Clock
	reporter secondary.Reporter
	window   time.Duration
}

// NewDiscoveryService creates a new DiscoveryService with injected
// dependencies. A zero window falls back to the default 48 hours.
func NewDiscoveryService(mail secondary.MailChannel, clock secondary.Clock, reporter secondary.Reporter, window time.Duration) *DiscoveryServiceImpl {
	if window == 0 {
		window = defaultDiscoveryWindow
	}
	return &DiscoveryServiceImpl{mail: mail, clock: clock, reporter: reporter, window: window}
}

// Discover scans the mailbox for renewal notices and returns the
// contract id to extend. Headers are tried first; the body fetch only
// happens when no subject yields an id.
func (s *DiscoveryServiceImpl) Discover(ctx context.Context) (string, error) {
	s.reporter.Step("searching mailbox for pending renewal notices")
	since := s.clock.Now().Add(-s.window)

	query := secondary.MailQuery{
		SubjectContains: discovery.NoticeSubject,
		Since:           since,
		HeadersOnly:     true,
	}
	msgs, err := s.mail.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("mailbox search for renewal notices failed: %w", err)
	}

	sel, err := discovery.Select(noticesFrom(msgs))
	if errors.Is(err, discovery.ErrNoPendingRenewal) && len(msgs) > 0 {
		// Headers alone were insufficient; fetch bodies for the same
		// window and retry the body pattern.
		query.HeadersOnly = false
		msgs, err = s.mail.Search(ctx, query)
		if err != nil {
			return "", fmt.Errorf("mailbox body fetch for renewal notices failed: %w", err)
		}
		sel, err = discovery.Select(noticesFrom(msgs))
	}
	if err != nil {
		return "", err
	}

	if sel.Distinct > 1 {
		s.reporter.Warn("found %d distinct contract ids awaiting renewal, using the first by mailbox order", sel.Distinct)
	}
	s.reporter.Success("contract %s is awaiting manual renewal", sel.ContractID)
	return sel.ContractID, nil
}

func noticesFrom(msgs []models.MailMessage) []discovery.Notice {
	notices := make([]discovery.Notice, len(msgs))
	for i, m := range msgs {
		notices[i] = discovery.Notice{Subject: m.Subject, Body: m.Body}
	}
	return notices
}

// Ensure DiscoveryServiceImpl implements the interface
var _ primary.DiscoveryService = (*DiscoveryServiceImpl)(nil)
