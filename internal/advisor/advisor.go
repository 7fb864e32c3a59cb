// Package advisor is the canned-response assistant. A query is classified by
// an ordered rule table (first matching keyword set wins) and the chosen
// handler renders a fixed template over the current aggregates. There is no
// model call and no randomness: the same query over the same data always
// produces the same text.
package advisor

import (
	"context"
	"strings"
	"time"

	"finwise/internal/core"
	"finwise/internal/finance"
)

// Greeting opens every assistant conversation.
const Greeting = "Hi! I'm your AI financial assistant. I can help you analyze your spending patterns, suggest ways to save money, and give personalized financial advice. What would you like to know?"

// QuickActions are the suggested starter prompts shown in the UI.
var QuickActions = []string{
	"Analyze my spending",
	"How can I save more?",
	"Review my budget",
	"Financial overview",
}

// snapshot bundles the aggregates every handler draws from.
type snapshot struct {
	summary finance.Summary
	txs     []core.Transaction
	goals   []core.Goal
}

type rule struct {
	name     string
	keywords []string
	respond  func(snapshot) string
}

type Advisor struct {
	delay time.Duration
	rules []rule
}

// New builds an advisor with the standard rule table. The delay is the
// cosmetic "thinking" latency applied by AdviseContext; it has no effect on
// the response itself.
func New(delay time.Duration) *Advisor {
	return &Advisor{
		delay: delay,
		// Priority order matters: the first rule whose keyword appears in
		// the query wins.
		rules: []rule{
			{name: "spending", keywords: []string{"spending", "expense"}, respond: adviseSpending},
			{name: "saving", keywords: []string{"save", "saving"}, respond: adviseSaving},
			{name: "budget", keywords: []string{"budget"}, respond: adviseBudget},
			{name: "goal", keywords: []string{"goal"}, respond: adviseGoals},
			{name: "income", keywords: []string{"income"}, respond: adviseIncome},
			{name: "overview", keywords: []string{"overview", "summary"}, respond: adviseOverview},
		},
	}
}

// Advise classifies the query and renders the matching response. It is pure:
// no delay, no side effects.
func (a *Advisor) Advise(query string, txs []core.Transaction, goals []core.Goal) string {
	snap := snapshot{
		summary: finance.Summarize(txs),
		txs:     txs,
		goals:   goals,
	}

	lower := strings.ToLower(query)
	for _, r := range a.rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.respond(snap)
			}
		}
	}
	return adviseDefault(snap)
}

// AdviseContext applies the configured thinking delay before answering. The
// delay is interruptible: if ctx is done first, the context error is
// returned and no response is produced.
func (a *Advisor) AdviseContext(ctx context.Context, query string, txs []core.Transaction, goals []core.Goal) (string, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return a.Advise(query, txs, goals), nil
}
