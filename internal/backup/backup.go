// Package backup writes periodic JSON snapshots of the tracked collections to
// a local directory. Snapshots are full copies, so restoring is a matter of
// loading a single file.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"finwise/internal/core"
)

// Snapshotter provides the current state of both collections.
type Snapshotter interface {
	Transactions() []core.Transaction
	Goals() []core.Goal
}

// Snapshot is the on-disk backup format.
type Snapshot struct {
	CreatedAt    time.Time          `json:"createdAt"`
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"savingsGoals"`
}

// Scheduler runs snapshot jobs on a cron schedule.
type Scheduler struct {
	dir  string
	keep int
	src  Snapshotter
	cron *cron.Cron
	now  func() time.Time
}

// NewScheduler validates the cron spec and prepares the job. keep bounds how
// many snapshot files are retained; older ones are pruned after each run.
func NewScheduler(dir, spec string, keep int, src Snapshotter) (*Scheduler, error) {
	s := &Scheduler{
		dir:  dir,
		keep: keep,
		src:  src,
		cron: cron.New(),
		now:  time.Now,
	}

	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			slog.Error("Backup run failed", "error", err, "dir", dir)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Backup scheduler started", "dir", s.dir)
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Backup scheduler stopped")
}

// RunOnce writes a single timestamped snapshot and prunes old files.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	snap := Snapshot{
		CreatedAt:    s.now(),
		Transactions: s.src.Transactions(),
		Goals:        s.src.Goals(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("backup-%s.json", snap.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Backup snapshot written",
		"path", path,
		"transactions", len(snap.Transactions),
		"goals", len(snap.Goals))

	return s.prune()
}

// prune removes the oldest snapshots beyond the retention limit. Timestamped
// names sort chronologically, so lexical order is enough.
func (s *Scheduler) prune() error {
	if s.keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "backup-") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("prune snapshot %s: %w", name, err)
		}
		slog.Debug("Pruned old backup", "name", name)
	}
	return nil
}

// Restore loads a snapshot file, for manual recovery.
func Restore(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
