package secondary

import (
	"context"
	"time"

	"github.com/example/renewbot/internal/models"
)

// StateStore persists the mutable checkpoint fields. Save is called
// before control returns from every state-affecting step.
type StateStore interface {
	Load(ctx context.Context) (*models.PersistedState, error)
	Save(ctx context.Context, state *models.PersistedState) error
}

// CookieStore persists the portal cookie jar between runs. A missing
// store yields an empty jar, not an error.
type CookieStore interface {
	Load(ctx context.Context) ([]models.Cookie, error)
	Save(ctx context.Context, cookies []models.Cookie) error
}

// RunRecord is one audit row of a renewal run attempt.
type RunRecord struct {
	ID         int64
	ContractID string
	Outcome    string // confirmed, uncertain, failed
	NewExpiry  string // dd.mm.yyyy when the confirmation dialog exposed it
	Note       string
	CreatedAt  time.Time
}

// HistoryRepository records run attempts for the status and history
// commands.
type HistoryRepository interface {
	Record(ctx context.Context, rec *RunRecord) error
	List(ctx context.Context, limit int) ([]*RunRecord, error)
}
