package primary

import (
	"context"

	"github.com/example/renewbot/internal/models"
)

// DiscoveryService finds the contract awaiting manual renewal.
type DiscoveryService interface {
	// Discover returns the contract id from the newest renewal notices,
	// or discovery.ErrNoPendingRenewal when the window holds none.
	Discover(ctx context.Context) (string, error)
}

// ExtensionService drives the token-chained extension transaction for
// one contract against an authenticated session.
type ExtensionService interface {
	Extend(ctx context.Context, session *models.AuthSession, contractID string) (*ExtensionResult, error)
}

// ExtensionResult is the outcome of the extension transaction.
type ExtensionResult struct {
	// Contract carries the renewed contract id and the expiry observed
	// in the confirmation dialog, empty when no date was exposed.
	Contract models.Contract
	Outcome  string // confirmed or uncertain
}

// RunRequest parameterizes one orchestrator run.
type RunRequest struct {
	// TestLoginsOnly checks mailbox and portal authentication and stops
	// before discovery and extension.
	TestLoginsOnly bool
}

// RunResult summarizes one orchestrator run.
type RunResult struct {
	// Skipped is set for benign no-ops: cooldown still active, or no
	// renewal notice pending.
	Skipped    bool
	SkipReason string

	ContractID string
	Outcome    string
	NewExpiry  string
}

// RenewalService is the top-level orchestrator: cooldown gate,
// discovery, authentication, extension, persistence.
type RenewalService interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}
