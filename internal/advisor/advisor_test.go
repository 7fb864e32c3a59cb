package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finwise/internal/core"
)

func tx(kind core.Kind, category string, cents int64) core.Transaction {
	return core.Transaction{
		ID:          "t",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Description: category,
		Date:        core.NewDate(2025, 10, 1),
		Kind:        kind,
	}
}

func TestPriorityOrder(t *testing.T) {
	a := New(0)
	txs := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Food & Dining", 20000),
	}

	cases := []struct {
		name  string
		query string
		want  string // distinctive substring of the expected category
	}{
		{"spending", "Analyze my spending", "Based on your spending data"},
		{"expense keyword", "what about my expenses?", "Based on your spending data"},
		{"saving", "How can I save more?", "savings tips"},
		{"budget", "Review my budget", "Recommended budget breakdown"},
		{"goal", "how are my goals?", "savings goals"},
		{"income", "tell me about my income", "Ways to increase income"},
		{"overview", "give me an overview", "Financial Overview"},
		{"summary keyword", "weekly summary please", "Financial Overview"},
		{"default", "hello there", "I can help you with"},
		// "spending" outranks "budget" when both keywords appear
		{"priority", "spending vs budget", "Based on your spending data"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Advise(tc.query, txs, nil)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("Advise(%q) = %q, want substring %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestSpendingNoData(t *testing.T) {
	a := New(0)
	got := a.Advise("analyze my spending", nil, nil)
	if !strings.Contains(got, "You haven't logged any expenses yet") {
		t.Fatalf("got %q", got)
	}
}

func TestSpendingReport(t *testing.T) {
	a := New(0)
	txs := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Shopping", 30000),
		tx(core.Expense, "Food & Dining", 50000),
	}

	got := a.Advise("analyze my spending", txs, nil)
	if !strings.Contains(got, "Total expenses: $800.00") {
		t.Fatalf("missing total: %q", got)
	}
	if !strings.Contains(got, "Top category: Food & Dining ($500.00)") {
		t.Fatalf("missing top category: %q", got)
	}
	// savings rate is 20%, just at the healthy threshold
	if !strings.Contains(got, "Great job maintaining a healthy savings rate") {
		t.Fatalf("missing positive remark: %q", got)
	}

	// push the rate below 20%
	txs = append(txs, tx(core.Expense, "Travel", 10000))
	got = a.Advise("analyze my spending", txs, nil)
	if !strings.Contains(got, "Try to save at least 20% of your income") {
		t.Fatalf("missing warning: %q", got)
	}
}

func TestSavingRecommendations(t *testing.T) {
	a := New(0)

	// Food & Dining is 20% of income, above the 15% threshold
	txs := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Food & Dining", 20000),
	}
	got := a.Advise("How can I save more?", txs, nil)
	if !strings.Contains(got, "Your food spending is high - try meal prepping to save 30-40%") {
		t.Fatalf("missing food recommendation: %q", got)
	}
	// estimated monthly savings = 15% of expenses
	if !strings.Contains(got, "could save you $30.00/month") {
		t.Fatalf("missing estimate: %q", got)
	}

	// all thresholds respected -> single congratulatory message
	healthy := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Food & Dining", 10000),
	}
	got = a.Advise("saving tips", healthy, nil)
	if !strings.Contains(got, "You're doing great with your savings!") {
		t.Fatalf("expected congratulation, got %q", got)
	}
}

func TestSavingThresholdOrder(t *testing.T) {
	a := New(0)
	txs := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Shopping", 30000),
		tx(core.Expense, "Entertainment", 30000),
		tx(core.Expense, "Food & Dining", 30000),
	}

	got := a.Advise("save", txs, nil)
	rate := strings.Index(got, "Aim to save at least 20%")
	food := strings.Index(got, "Your food spending is high")
	ent := strings.Index(got, "free entertainment alternatives")
	shop := strings.Index(got, "24-hour rule")
	if rate < 0 || food < 0 || ent < 0 || shop < 0 {
		t.Fatalf("missing recommendations: %q", got)
	}
	if !(rate < food && food < ent && ent < shop) {
		t.Fatalf("recommendations out of order: %q", got)
	}
}

func TestBudgetTable(t *testing.T) {
	a := New(0)
	txs := []core.Transaction{tx(core.Income, "Salary", 200000)}

	got := a.Advise("budget", txs, nil)
	for _, want := range []string{
		"Housing: $600.00 (30%)",
		"Food & Dining: $300.00 (15%)",
		"Transportation: $300.00 (15%)",
		"Savings: $400.00 (20%)",
		"Entertainment: $100.00 (5%)",
		"Other: $300.00 (15%)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestGoalsAdvice(t *testing.T) {
	a := New(0)

	got := a.Advise("goal", nil, nil)
	if !strings.Contains(got, "You haven't set any savings goals yet") {
		t.Fatalf("expected starter suggestion, got %q", got)
	}

	goals := []core.Goal{
		{ID: "g1", Name: "Vacation", TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 25000}, Deadline: core.NewDate(2026, 6, 1), Category: "Vacation"},
	}
	txs := []core.Transaction{
		tx(core.Income, "Salary", 100000),
		tx(core.Expense, "Shopping", 50000),
	}
	got = a.Advise("goal progress", txs, goals)
	if !strings.Contains(got, "Your savings goals progress: 25.0%") {
		t.Fatalf("missing aggregate progress: %q", got)
	}
	if !strings.Contains(got, "Vacation: 25% ($750.00 remaining)") {
		t.Fatalf("missing per-goal line: %q", got)
	}
	// net savings 500 -> allocate 80%
	if !strings.Contains(got, "allocate $400.00/month to goals!") {
		t.Fatalf("missing allocation: %q", got)
	}

	// negative net savings flips the closing remark
	broke := []core.Transaction{
		tx(core.Income, "Salary", 10000),
		tx(core.Expense, "Shopping", 20000),
	}
	got = a.Advise("goal progress", broke, goals)
	if !strings.Contains(got, "Focus on increasing income or reducing expenses") {
		t.Fatalf("missing deficit remark: %q", got)
	}
}

func TestDefaultIsDataIndependent(t *testing.T) {
	a := New(0)
	empty := a.Advise("xyzzy", nil, nil)

	txs := []core.Transaction{
		tx(core.Income, "Salary", 123456),
		tx(core.Expense, "Travel", 65432),
	}
	goals := []core.Goal{
		{ID: "g", Name: "Car", TargetAmount: core.Money{Cents: 500000}, Deadline: core.NewDate(2027, 1, 1), Category: "Car"},
	}
	if got := a.Advise("xyzzy", txs, goals); got != empty {
		t.Fatalf("default response depends on data:\n%q\n%q", empty, got)
	}
	if !strings.Contains(empty, "Try asking: 'How can I save more?' or 'Analyze my spending'") {
		t.Fatalf("unexpected default text: %q", empty)
	}
}

func TestAdviseContextCancellation(t *testing.T) {
	a := New(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := a.AdviseContext(ctx, "overview", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancellation did not interrupt the delay")
	}
}

func TestAdviseContextDelivers(t *testing.T) {
	a := New(10 * time.Millisecond)
	got, err := a.AdviseContext(context.Background(), "overview", nil, nil)
	if err != nil {
		t.Fatalf("AdviseContext: %v", err)
	}
	if !strings.Contains(got, "Financial Overview") {
		t.Fatalf("got %q", got)
	}
}
