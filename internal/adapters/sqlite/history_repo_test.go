package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/renewbot/internal/adapters/sqlite"
	"github.com/example/renewbot/internal/ports/secondary"
)

func TestHistoryRecordAndList(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewHistoryRepository(testDB)
	ctx := context.Background()

	rec := &secondary.RunRecord{
		ContractID: "4711",
		Outcome:    "confirmed",
		NewExpiry:  "01.01.2027",
	}
	if err := repo.Record(ctx, rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if rec.ID == 0 {
		t.Error("Record() did not backfill the row id")
	}

	records, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	got := records[0]
	if got.ContractID != "4711" || got.Outcome != "confirmed" || got.NewExpiry != "01.01.2027" {
		t.Errorf("record = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestHistoryListNewestFirst(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewHistoryRepository(testDB)
	ctx := context.Background()

	for _, id := range []string{"111", "222", "333"} {
		if err := repo.Record(ctx, &secondary.RunRecord{ContractID: id, Outcome: "failed", Note: "portal rejected the login"}); err != nil {
			t.Fatalf("Record(%s) error = %v", id, err)
		}
	}

	records, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want limit of 2", len(records))
	}
	if records[0].ContractID != "333" || records[1].ContractID != "222" {
		t.Errorf("order = %s, %s, want newest first", records[0].ContractID, records[1].ContractID)
	}
}

func TestHistoryEmptyOptionalColumns(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewHistoryRepository(testDB)
	ctx := context.Background()

	if err := repo.Record(ctx, &secondary.RunRecord{ContractID: "4711", Outcome: "uncertain"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	records, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records[0].NewExpiry != "" || records[0].Note != "" {
		t.Errorf("optional columns = %q, %q, want empty", records[0].NewExpiry, records[0].Note)
	}
}

func TestHistoryRejectsUnknownOutcome(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewHistoryRepository(testDB)

	err := repo.Record(context.Background(), &secondary.RunRecord{ContractID: "4711", Outcome: "maybe"})
	if err == nil {
		t.Fatal("Record() accepted an outcome outside the CHECK constraint")
	}
}
