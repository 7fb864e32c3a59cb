package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"finwise/internal/core"
)

// Pacing describes how a savings goal is tracking against its deadline.
type Pacing struct {
	// ProgressPct is current/target as a percentage. Over-funded goals
	// exceed 100.
	ProgressPct float64
	// Remaining is target-current; negative when over-funded.
	Remaining core.Money
	// DaysRemaining is the whole number of days until the deadline,
	// floored at 0 once the deadline has passed.
	DaysRemaining int
	// RequiredMonthlyPace is remaining/(days/30). Only meaningful while
	// the deadline is in the future; zero otherwise.
	RequiredMonthlyPace core.Money
}

// GoalPacing computes progress and required pace for a goal relative to now.
func GoalPacing(g core.Goal, now time.Time) Pacing {
	p := Pacing{
		Remaining: g.TargetAmount.Sub(g.CurrentAmount),
	}
	if g.TargetAmount.Cents > 0 {
		pct, _ := g.CurrentAmount.Decimal().
			Div(g.TargetAmount.Decimal()).
			Mul(decimal.NewFromInt(100)).
			Float64()
		p.ProgressPct = pct
	}

	diff := g.Deadline.Time.Sub(core.DateOf(now).Time)
	daysRemaining := int(diff.Hours() / 24)
	if daysRemaining > 0 {
		p.DaysRemaining = daysRemaining
		// remaining / (days/30) == remaining*30/days, rounded to cents
		pace := p.Remaining.Decimal().
			Mul(decimal.NewFromInt(30)).
			Div(decimal.NewFromInt(int64(daysRemaining))).
			Round(2)
		p.RequiredMonthlyPace = core.Money{Cents: pace.Mul(decimal.NewFromInt(100)).IntPart()}
	}
	return p
}

// GoalsProgress is the aggregate funded percentage across all goals:
// sum(current)/sum(target). Zero when there are no goals or no targets.
func GoalsProgress(goals []core.Goal) float64 {
	var target, current core.Money
	for _, g := range goals {
		target = target.Add(g.TargetAmount)
		current = current.Add(g.CurrentAmount)
	}
	if target.Cents == 0 {
		return 0
	}
	pct, _ := current.Decimal().
		Div(target.Decimal()).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return pct
}
