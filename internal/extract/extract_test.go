package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"finwise/internal/core"
)

func TestSimulatedExtract(t *testing.T) {
	s := NewSimulated(0)
	s.now = func() time.Time { return time.Date(2025, 10, 5, 10, 0, 0, 0, time.UTC) }

	for i := 0; i < 50; i++ {
		got, err := s.Extract(context.Background(), []byte("fake image"))
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Amount.Cents < 1000 || got.Amount.Cents > 11000 {
			t.Fatalf("amount %d outside $10.00-$110.00", got.Amount.Cents)
		}
		valid := false
		for _, c := range core.TransactionCategories {
			if got.Category == c {
				valid = true
				break
			}
		}
		if !valid {
			t.Fatalf("unknown category %q", got.Category)
		}
		if got.Description != "Receipt from 10/05/2025" {
			t.Fatalf("description = %q", got.Description)
		}
	}
}

func TestSimulatedExtractCancellation(t *testing.T) {
	s := NewSimulated(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := s.Extract(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancellation did not interrupt the delay")
	}
}
