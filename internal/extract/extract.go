// Package extract defines the receipt-extraction seam. The only shipped
// implementation is simulated: it waits a cosmetic delay and fills the form
// with plausible random values. A real OCR or model-backed extractor can
// replace it behind the same interface without touching the record store or
// the aggregation engine.
package extract

import (
	"context"
	"math/rand"
	"time"

	"finwise/internal/core"
)

// Result carries the fields pre-filled into the transaction form after a
// receipt upload.
type Result struct {
	Amount      core.Money
	Category    string
	Description string
}

// Extractor turns an uploaded receipt image into form fields.
type Extractor interface {
	Extract(ctx context.Context, receipt []byte) (Result, error)
}

// Simulated is the stand-in extractor: random amount and category after a
// fixed processing delay. The delay is interruptible through ctx.
type Simulated struct {
	delay time.Duration
	rnd   *rand.Rand
	now   func() time.Time
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{
		delay: delay,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

func (s *Simulated) Extract(ctx context.Context, _ []byte) (Result, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	// amount between $10.00 and $110.00
	cents := 1000 + s.rnd.Int63n(10001)
	category := core.TransactionCategories[s.rnd.Intn(len(core.TransactionCategories))]

	return Result{
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: "Receipt from " + s.now().Format("01/02/2006"),
	}, nil
}
