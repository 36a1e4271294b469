package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/renewbot/internal/core/pin"
	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// Default bounds of the PIN poll loop. The deadline is the only
// cancellation mechanism: there is no external interrupt protocol, a
// run that exhausts it aborts and relies on the next scheduled run.
const (
	defaultPollInterval = 10 * time.Second
	defaultMaxWait      = 600 * time.Second
	defaultSearchWindow = 5 * time.Minute

	// DefaultLoginPinSubject matches the provider's login-confirmation
	// PIN mails.
	DefaultLoginPinSubject = "EUserv - PIN for the confirmation of the login"
	// DefaultExtensionPinSubject matches the security-check PIN mails
	// sent during the extension transaction.
	DefaultExtensionPinSubject = "EUserv - PIN for the confirmation of a security check"
)

// PinConfig bounds one challenge resolution. Zero values fall back to
// the defaults above.
type PinConfig struct {
	PollInterval     time.Duration
	MaxWait          time.Duration
	SearchWindow     time.Duration
	LoginSubject     string
	ExtensionSubject string
}

func (c PinConfig) withDefaults() PinConfig {
	if c.PollInterval == 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxWait == 0 {
		c.MaxWait = defaultMaxWait
	}
	if c.SearchWindow == 0 {
		c.SearchWindow = defaultSearchWindow
	}
	if c.LoginSubject == "" {
		c.LoginSubject = DefaultLoginPinSubject
	}
	if c.ExtensionSubject == "" {
		c.ExtensionSubject = DefaultExtensionPinSubject
	}
	return c
}

// PinResolverImpl implements the PinResolver interface: a bounded poll
// loop over the mailbox, shared by login and extension challenges.
type PinResolverImpl struct {
	mail     secondary.MailChannel
	clock    secondary.Clock
	reporter secondary.Reporter
	cfg      PinConfig
}

// NewPinResolver creates a new PinResolver with injected dependencies.
func NewPinResolver(mail secondary.MailChannel, clock secondary.Clock, reporter secondary.Reporter, cfg PinConfig) *PinResolverImpl {
	return &PinResolverImpl{mail: mail, clock: clock, reporter: reporter, cfg: cfg.withDefaults()}
}

// Resolve polls the mailbox for a challenge mail and extracts its PIN.
func (r *PinResolverImpl) Resolve(ctx context.Context, kind models.ChallengeKind) (string, error) {
	subject := r.cfg.LoginSubject
	if kind == models.ChallengeExtensionPin {
		subject = r.cfg.ExtensionSubject
	}

	challenge := models.Challenge{Kind: kind, CreatedAt: r.clock.Now()}
	deadline := challenge.CreatedAt.Add(r.cfg.MaxWait)
	r.reporter.Step("waiting for %s mail, polling every %s for up to %s", kind, r.cfg.PollInterval, r.cfg.MaxWait)

	for {
		msgs, err := r.mail.Search(ctx, secondary.MailQuery{
			SubjectContains: subject,
			Since:           r.clock.Now().Add(-r.cfg.SearchWindow),
			NewestFirst:     true,
		})
		if err != nil {
			return "", fmt.Errorf("mailbox search for %s failed: %w", kind, err)
		}

		if len(msgs) > 0 {
			bodies := make([]string, len(msgs))
			for i, m := range msgs {
				bodies[i] = m.Body
			}
			sel, err := pin.Select(bodies)
			if err != nil {
				// A matching mail without a recognizable PIN means an
				// unrecognized format, not a transient absence.
				return "", fmt.Errorf("challenge mail for %s matched but carried no recognizable pin: %w", kind, err)
			}
			if sel.Distinct > 1 {
				r.reporter.Warn("found %d distinct pins in the window, using the newest", sel.Distinct)
			}
			r.reporter.Success("received %s", kind)
			return sel.Pin, nil
		}

		if r.clock.Now().Add(r.cfg.PollInterval).After(deadline) {
			return "", fmt.Errorf("no %s mail within %s: %w", kind, r.cfg.MaxWait, pin.ErrPinNotFound)
		}
		if err := r.clock.Sleep(ctx, r.cfg.PollInterval); err != nil {
			return "", err
		}
	}
}

// Ensure PinResolverImpl implements the interface
var _ primary.PinResolver = (*PinResolverImpl)(nil)
