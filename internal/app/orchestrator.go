package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/renewbot/internal/core/discovery"
	"github.com/example/renewbot/internal/core/renewal"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// defaultCooldown is the minimum elapsed time after a successful (or
// uncertain) renewal before another attempt is permitted.
const defaultCooldown = 3 * 24 * time.Hour

// OrchestratorImpl implements the RenewalService interface: cooldown
// gate, discovery, authentication, extension, audit record, in that
// order. It is the only layer that decides a run is over; inner
// services never swallow fatal conditions.
type OrchestratorImpl struct {
	state     secondary.StateStore
	history   secondary.HistoryRepository
	mail      secondary.MailChannel
	discovery primary.DiscoveryService
	sessions  primary.SessionService
	extension primary.ExtensionService
	clock     secondary.Clock
	reporter  secondary.Reporter
	cooldown  time.Duration
}

// NewOrchestrator creates a new Orchestrator with injected
// dependencies. A zero cooldown falls back to the default 3 days.
func NewOrchestrator(
	state secondary.StateStore,
	history secondary.HistoryRepository,
	mail secondary.MailChannel,
	discoverySvc primary.DiscoveryService,
	sessions primary.SessionService,
	extension primary.ExtensionService,
	clock secondary.Clock,
	reporter secondary.Reporter,
	cooldown time.Duration,
) *OrchestratorImpl {
	if cooldown == 0 {
		cooldown = defaultCooldown
	}
	return &OrchestratorImpl{
		state:     state,
		history:   history,
		mail:      mail,
		discovery: discoverySvc,
		sessions:  sessions,
		extension: extension,
		clock:     clock,
		reporter:  reporter,
		cooldown:  cooldown,
	}
}

// Run executes one renewal attempt end to end.
func (o *OrchestratorImpl) Run(ctx context.Context, req primary.RunRequest) (*primary.RunResult, error) {
	if req.TestLoginsOnly {
		return o.testLogins(ctx)
	}

	st, err := o.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}

	// Cooldown gate: inside the window nothing is attempted, no
	// network connection is opened.
	if st.LastExtension != nil {
		elapsed := o.clock.Now().Sub(*st.LastExtension)
		if elapsed <= o.cooldown {
			o.reporter.Info("last renewal was %s ago, cooldown of %s still active, nothing to do",
				elapsed.Round(time.Minute), o.cooldown)
			return &primary.RunResult{Skipped: true, SkipReason: "cooldown active"}, nil
		}
	}

	contractID, err := o.discovery.Discover(ctx)
	if errors.Is(err, discovery.ErrNoPendingRenewal) {
		o.reporter.Info("no pending renewal notice in the mailbox, nothing to do")
		return &primary.RunResult{Skipped: true, SkipReason: "no pending renewal"}, nil
	}
	if err != nil {
		return nil, err
	}

	// Checkpoint the discovered contract before the long part starts.
	st.LastContractID = contractID
	if err := o.state.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to persist discovered contract: %w", err)
	}

	session, err := o.sessions.Login(ctx)
	if err != nil {
		o.recordFailure(ctx, contractID, err)
		return nil, err
	}

	result, err := o.extension.Extend(ctx, session, contractID)
	if err != nil {
		o.recordFailure(ctx, contractID, err)
		return nil, err
	}

	if err := o.history.Record(ctx, &secondary.RunRecord{
		ContractID: result.Contract.ID,
		Outcome:    result.Outcome,
		NewExpiry:  result.Contract.ObservedExpiry,
	}); err != nil {
		o.reporter.Warn("failed to record run in history: %v", err)
	}

	return &primary.RunResult{
		ContractID: result.Contract.ID,
		Outcome:    result.Outcome,
		NewExpiry:  result.Contract.ObservedExpiry,
	}, nil
}

// testLogins checks mailbox and portal authentication without touching
// discovery or the extension transaction.
func (o *OrchestratorImpl) testLogins(ctx context.Context) (*primary.RunResult, error) {
	o.reporter.Step("checking mailbox login")
	if err := o.mail.Verify(ctx); err != nil {
		o.reporter.Info("if the mailbox provider requires app passwords, configure one for renewbot")
		return nil, fmt.Errorf("mailbox login failed: %w", err)
	}
	o.reporter.Success("mailbox login")

	o.reporter.Step("checking portal login")
	if _, err := o.sessions.Login(ctx); err != nil {
		return nil, err
	}

	return &primary.RunResult{Skipped: true, SkipReason: "test logins only"}, nil
}

func (o *OrchestratorImpl) recordFailure(ctx context.Context, contractID string, cause error) {
	rec := &secondary.RunRecord{
		ContractID: contractID,
		Outcome:    string(renewal.OutcomeFailed),
		Note:       cause.Error(),
	}
	if err := o.history.Record(ctx, rec); err != nil {
		o.reporter.Warn("failed to record failure in history: %v", err)
	}
}

// Ensure OrchestratorImpl implements the interface
var _ primary.RenewalService = (*OrchestratorImpl)(nil)
