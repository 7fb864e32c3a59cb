package finance

import (
	"testing"
	"time"

	"finwise/internal/core"
)

func TestGoalPacing(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	g := core.Goal{
		ID:            "g1",
		Name:          "Vacation",
		TargetAmount:  core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 25000},
		Deadline:      core.NewDate(2025, 11, 30), // 60 days out
		Category:      "Vacation",
	}

	p := GoalPacing(g, now)
	if p.ProgressPct != 25 {
		t.Fatalf("progress = %v, want 25", p.ProgressPct)
	}
	if p.Remaining.Cents != 75000 {
		t.Fatalf("remaining = %d, want 75000", p.Remaining.Cents)
	}
	if p.DaysRemaining != 60 {
		t.Fatalf("days remaining = %d, want 60", p.DaysRemaining)
	}
	// 750 / (60/30) = 375
	if p.RequiredMonthlyPace.Cents != 37500 {
		t.Fatalf("pace = %d, want 37500", p.RequiredMonthlyPace.Cents)
	}
}

func TestGoalPacingPastDeadline(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	g := core.Goal{
		TargetAmount:  core.Money{Cents: 100000},
		CurrentAmount: core.Money{Cents: 10000},
		Deadline:      core.NewDate(2025, 9, 1),
	}

	p := GoalPacing(g, now)
	if p.DaysRemaining != 0 {
		t.Fatalf("days remaining = %d, want 0", p.DaysRemaining)
	}
	if p.RequiredMonthlyPace.Cents != 0 {
		t.Fatalf("pace defined past deadline: %d", p.RequiredMonthlyPace.Cents)
	}
}

func TestGoalPacingOverFunded(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	g := core.Goal{
		TargetAmount:  core.Money{Cents: 10000},
		CurrentAmount: core.Money{Cents: 12500},
		Deadline:      core.NewDate(2025, 12, 1),
	}

	p := GoalPacing(g, now)
	if p.ProgressPct != 125 {
		t.Fatalf("progress = %v, want 125", p.ProgressPct)
	}
	if p.Remaining.Cents != -2500 {
		t.Fatalf("remaining = %d, want -2500", p.Remaining.Cents)
	}
}

func TestGoalsProgress(t *testing.T) {
	goals := []core.Goal{
		{TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 25000}},
		{TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 75000}},
	}
	if got := GoalsProgress(goals); got != 50 {
		t.Fatalf("aggregate progress = %v, want 50", got)
	}
	if got := GoalsProgress(nil); got != 0 {
		t.Fatalf("empty progress = %v, want 0", got)
	}
}
