// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/renewbot/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record persists one run attempt.
func (r *HistoryRepository) Record(ctx context.Context, rec *secondary.RunRecord) error {
	var newExpiry, note sql.NullString

	if rec.NewExpiry != "" {
		newExpiry = sql.NullString{String: rec.NewExpiry, Valid: true}
	}
	if rec.Note != "" {
		note = sql.NullString{String: rec.Note, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO renewal_history (contract_id, outcome, new_expiry, note) VALUES (?, ?, ?, ?)",
		rec.ContractID, rec.Outcome, newExpiry, note,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}

	return nil
}

// List retrieves the most recent run records, newest first. A limit of
// zero or less means no limit.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	query := "SELECT id, contract_id, outcome, new_expiry, note, created_at FROM renewal_history ORDER BY created_at DESC, id DESC"
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list run history: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RunRecord
	for rows.Next() {
		var (
			newExpiry sql.NullString
			note      sql.NullString
			createdAt time.Time
		)

		record := &secondary.RunRecord{}
		err := rows.Scan(&record.ID, &record.ContractID, &record.Outcome, &newExpiry, &note, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		record.NewExpiry = newExpiry.String
		record.Note = note.String
		record.CreatedAt = createdAt

		records = append(records, record)
	}

	return records, nil
}

// Ensure HistoryRepository implements the interface
var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
