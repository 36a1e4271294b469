package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/example/renewbot/internal/core/renewal"
	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/ports/secondary"
)

// ExtensionWorkflowImpl implements the ExtensionService interface. It
// drives the token-chained extension transaction: landing page, deep
// link, security dialog, PIN, token exchange, confirmation dialog,
// finalize. Each step consumes a value scraped from the previous
// response, so the steps are strictly sequential.
type ExtensionWorkflowImpl struct {
	web      secondary.WebSession
	pins     primary.PinResolver
	state    secondary.StateStore
	clock    secondary.Clock
	reporter secondary.Reporter
}

// NewExtensionWorkflow creates a new ExtensionWorkflow with injected
// dependencies.
func NewExtensionWorkflow(
	web secondary.WebSession,
	pins primary.PinResolver,
	state secondary.StateStore,
	clock secondary.Clock,
	reporter secondary.Reporter,
) *ExtensionWorkflowImpl {
	return &ExtensionWorkflowImpl{web: web, pins: pins, state: state, clock: clock, reporter: reporter}
}

// Extend drives the renewal transaction for contractID. On completion,
// confirmed or uncertain, the extension timestamp is persisted so the
// cooldown gate holds regardless of the true remote outcome.
func (w *ExtensionWorkflowImpl) Extend(ctx context.Context, session *models.AuthSession, contractID string) (*primary.ExtensionResult, error) {
	// Step 1: scrape the contract-specific extend deep link.
	w.reporter.Step("opening authenticated landing page")
	landing, err := w.web.Get(ctx, landingPath+"?sess_id="+url.QueryEscape(session.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to open landing page: %w", err)
	}
	link, err := renewal.ExtensionLink(landing.Body, contractID)
	if err != nil {
		return nil, err
	}

	// Step 2: open the deep link, then the security-PIN dialog scoped
	// by the contract's control prefix.
	w.reporter.Step("opening extension dialog for contract %s", contractID)
	if _, err := w.web.Get(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to open extension link: %w", err)
	}
	prefix := renewal.ControlPrefix(contractID)
	if _, err := w.web.PostForm(ctx, landingPath, url.Values{
		"sess_id":   {session.ID},
		"subaction": {renewal.ActionShowSecurityDialog},
		"prefix":    {prefix},
	}); err != nil {
		return nil, fmt.Errorf("failed to open security pin dialog: %w", err)
	}

	// Step 3: out-of-band PIN.
	pinValue, err := w.pins.Resolve(ctx, models.ChallengeExtensionPin)
	if err != nil {
		return nil, err
	}

	// Step 4: exchange the PIN for the transaction token.
	w.reporter.Step("exchanging pin for transaction token")
	resp, err := w.web.PostForm(ctx, landingPath, url.Values{
		"sess_id":   {session.ID},
		"subaction": {renewal.ActionGetToken},
		"prefix":    {prefix},
		"password":  {pinValue},
	})
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	token, err := renewal.ParseTokenExchange([]byte(resp.Body))
	if err != nil {
		return nil, err
	}

	// Step 5: confirmation dialog, best-effort expiry scrape.
	resp, err = w.web.PostForm(ctx, landingPath, url.Values{
		"sess_id":   {session.ID},
		"subaction": {renewal.ActionConfirmationDialog},
		"token":     {token},
		"ord_no":    {contractID},
	})
	if err != nil {
		return nil, fmt.Errorf("confirmation dialog request failed: %w", err)
	}
	expiry, ok := renewal.ExtractExpiry(resp.Body)
	if !ok {
		w.reporter.Warn("could not determine the new expiry date, continuing without it")
	}

	// Step 6: finalize. Only reachable after a successful token
	// exchange.
	w.reporter.Step("finalizing term extension for contract %s", contractID)
	resp, err = w.web.PostForm(ctx, landingPath, url.Values{
		"sess_id":   {session.ID},
		"subaction": {renewal.ActionExtendTerm},
		"token":     {token},
		"ord_id":    {contractID},
	})
	if err != nil {
		return nil, fmt.Errorf("finalize request failed: %w", err)
	}
	outcome := renewal.ClassifyFinalize(resp.Body, expiry)

	if err := w.persistExtension(ctx, contractID); err != nil {
		return nil, err
	}

	switch outcome {
	case renewal.OutcomeConfirmed:
		w.reporter.Success("contract %s extended, new expiry %s", contractID, orUnknown(expiry))
	default:
		w.reporter.Warn("extension of contract %s submitted but not confirmed by the portal, verify manually", contractID)
	}

	return &primary.ExtensionResult{
		Contract: models.Contract{ID: contractID, ObservedExpiry: expiry},
		Outcome:  string(outcome),
	}, nil
}

func (w *ExtensionWorkflowImpl) persistExtension(ctx context.Context, contractID string) error {
	st, err := w.state.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted state: %w", err)
	}
	now := w.clock.Now()
	st.LastExtension = &now
	st.LastContractID = contractID
	if err := w.state.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to persist extension timestamp: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Ensure ExtensionWorkflowImpl implements the interface
var _ primary.ExtensionService = (*ExtensionWorkflowImpl)(nil)
