package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finwise/internal/core"
)

type fixedSource struct {
	txs   []core.Transaction
	goals []core.Goal
}

func (f fixedSource) Transactions() []core.Transaction { return f.txs }
func (f fixedSource) Goals() []core.Goal               { return f.goals }

func TestRunOnceWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	src := fixedSource{
		txs: []core.Transaction{{
			ID:          "t1",
			Amount:      core.Money{Cents: 4550},
			Category:    "Groceries",
			Description: "weekly shop",
			Date:        core.NewDate(2025, 10, 3),
			Kind:        core.Expense,
		}},
		goals: []core.Goal{{
			ID:           "g1",
			Name:         "Emergency Fund",
			TargetAmount: core.Money{Cents: 500000},
			Deadline:     core.NewDate(2026, 12, 31),
			Category:     "Emergency Fund",
		}},
	}

	s, err := NewScheduler(dir, "@daily", 10, src)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, 10, 5, 3, 0, 0, 0, time.UTC) }

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	path := filepath.Join(dir, "backup-20251005-030000.json")
	snap, err := Restore(path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != "t1" {
		t.Fatalf("unexpected transactions: %+v", snap.Transactions)
	}
	if len(snap.Goals) != 1 || snap.Goals[0].Name != "Emergency Fund" {
		t.Fatalf("unexpected goals: %+v", snap.Goals)
	}
	if snap.Transactions[0].Amount.Cents != 4550 {
		t.Fatalf("amount = %d", snap.Transactions[0].Amount.Cents)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScheduler(dir, "@daily", 2, fixedSource{})
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	times := []time.Time{
		time.Date(2025, 10, 1, 3, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 2, 3, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 3, 3, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		s.now = func() time.Time { return ts }
		if err := s.RunOnce(context.Background()); err != nil {
			t.Fatalf("RunOnce: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("kept %d snapshots, want 2", len(entries))
	}
	if entries[0].Name() != "backup-20251002-030000.json" {
		t.Fatalf("oldest kept = %s, want the 10-02 snapshot", entries[0].Name())
	}
}

func TestInvalidSchedule(t *testing.T) {
	if _, err := NewScheduler(t.TempDir(), "not a schedule", 10, fixedSource{}); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}
