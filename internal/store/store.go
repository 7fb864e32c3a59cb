// Package store owns the two ordered collections (transactions and savings
// goals) and is the only place that mutates them. Every successful mutation
// is followed by a full-collection write to the configured key-value backend.
// Consumers only ever see copies of the collections.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finwise/internal/core"
	"finwise/internal/storage"
)

const (
	keyTransactions = "transactions"
	keyGoals        = "savings_goals"
)

// ErrGoalNotFound is returned by Contribute for an unknown goal id.
var ErrGoalNotFound = errors.New("goal not found")

type Store struct {
	mu           sync.Mutex
	kv           storage.KV
	transactions []core.Transaction
	goals        []core.Goal
}

// Open loads both collections from kv. A missing key or a value that fails
// to decode yields an empty collection; corrupt stored data never prevents
// startup.
func Open(ctx context.Context, kv storage.KV) (*Store, error) {
	s := &Store{kv: kv}

	if err := loadCollection(ctx, kv, keyTransactions, &s.transactions); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, kv, keyGoals, &s.goals); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Record store loaded",
		"transactions", len(s.transactions),
		"goals", len(s.goals))
	return s, nil
}

func loadCollection[T any](ctx context.Context, kv storage.KV, key string, dst *[]T) error {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.WarnContext(ctx, "Stored collection is corrupt, starting empty",
			"key", key, "error", err)
		*dst = nil
	}
	return nil
}

// AddTransaction validates fields, assigns a fresh id and prepends the
// record: the collection is ordered most-recent-first.
func (s *Store) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = newID()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]core.Transaction{tx}, s.transactions...)
	if err := s.persistTransactions(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	s.transactions = next

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"kind", tx.Kind,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return tx, nil
}

// DeleteTransaction removes the matching record. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id {
			next := make([]core.Transaction, 0, len(s.transactions)-1)
			next = append(next, s.transactions[:i]...)
			next = append(next, s.transactions[i+1:]...)
			if err := s.persistTransactions(ctx, next); err != nil {
				return err
			}
			s.transactions = next
			slog.InfoContext(ctx, "Transaction deleted", "id", id)
			return nil
		}
	}
	return nil
}

// AddGoal validates fields, assigns a fresh id and appends the goal with a
// zero starting balance.
func (s *Store) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = newID()
	g.CurrentAmount = core.Money{}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Goal, 0, len(s.goals)+1)
	next = append(next, s.goals...)
	next = append(next, g)
	if err := s.persistGoals(ctx, next); err != nil {
		return core.Goal{}, err
	}
	s.goals = next

	slog.InfoContext(ctx, "Goal added",
		"id", g.ID,
		"name", g.Name,
		"target_cents", g.TargetAmount.Cents,
		"deadline", g.Deadline.Format("2006-01-02"))
	return g, nil
}

// Contribute adds amount to the goal's running balance. Contributions only
// ever increase the balance; there is no withdrawal operation, and funding
// past the target is allowed.
func (s *Store) Contribute(ctx context.Context, goalID string, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.goals {
		if s.goals[i].ID != goalID {
			continue
		}
		next := make([]core.Goal, len(s.goals))
		copy(next, s.goals)
		next[i].CurrentAmount = next[i].CurrentAmount.Add(amount)
		if err := s.persistGoals(ctx, next); err != nil {
			return core.Goal{}, err
		}
		s.goals = next
		slog.InfoContext(ctx, "Goal contribution",
			"id", goalID,
			"amount_cents", amount.Cents,
			"current_cents", next[i].CurrentAmount.Cents)
		return next[i], nil
	}
	return core.Goal{}, ErrGoalNotFound
}

// DeleteGoal removes the matching goal. Unknown ids are a no-op.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID == id {
			next := make([]core.Goal, 0, len(s.goals)-1)
			next = append(next, s.goals[:i]...)
			next = append(next, s.goals[i+1:]...)
			if err := s.persistGoals(ctx, next); err != nil {
				return err
			}
			s.goals = next
			slog.InfoContext(ctx, "Goal deleted", "id", id)
			return nil
		}
	}
	return nil
}

// Transactions returns a snapshot copy, most recent first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Goals returns a snapshot copy in insertion order.
func (s *Store) Goals() []core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// persistTransactions writes the candidate collection. Callers only commit
// it to the in-memory state after a successful write, so a failed persist
// never leaves a record visible that the backend does not hold.
func (s *Store) persistTransactions(ctx context.Context, txs []core.Transaction) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, keyTransactions, data); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

func (s *Store) persistGoals(ctx context.Context, goals []core.Goal) error {
	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	if err := s.kv.Set(ctx, keyGoals, data); err != nil {
		return fmt.Errorf("persist goals: %w", err)
	}
	return nil
}

// newID returns a fresh random identifier, falling back to a timestamp if
// the random source fails.
func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("id_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
