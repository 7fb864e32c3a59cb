// Package finance is the aggregation engine: pure functions that turn a
// snapshot of the transaction and goal collections into derived views.
// Nothing here mutates its input or touches storage; every time-relative
// computation takes an explicit reference date.
package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"finwise/internal/core"
)

// Summary is the headline aggregate over a transaction set.
type Summary struct {
	Income   core.Money
	Expenses core.Money
	Net      core.Money
	// SavingsRate is Net/Income as a percentage. Zero when there is no
	// income, regardless of expenses; negative when spending exceeds income.
	SavingsRate float64
}

// Totals sums the amounts of all transactions of the given kind.
func Totals(txs []core.Transaction, kind core.Kind) core.Money {
	var total core.Money
	for _, t := range txs {
		if t.Kind == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Summarize computes income, expenses, net savings and the savings rate.
func Summarize(txs []core.Transaction) Summary {
	income := Totals(txs, core.Income)
	expenses := Totals(txs, core.Expense)
	net := income.Sub(expenses)
	return Summary{
		Income:      income,
		Expenses:    expenses,
		Net:         net,
		SavingsRate: SavingsRate(income, net),
	}
}

// SavingsRate returns net/income as a percentage, 0 when income is zero.
func SavingsRate(income, net core.Money) float64 {
	if income.Cents == 0 {
		return 0
	}
	rate := net.Decimal().Div(income.Decimal()).Mul(decimal.NewFromInt(100))
	f, _ := rate.Float64()
	return f
}

// CategoryBreakdown groups expense transactions by category and sums their
// amounts. Categories appear in first-encountered order.
func CategoryBreakdown(txs []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Name: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// TopCategories returns at most n categories ranked by expense total,
// descending. Equal totals keep first-encountered order.
func TopCategories(txs []core.Transaction, n int) []core.CategoryAmount {
	ranked := CategoryBreakdown(txs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CategoryTotal returns the summed expense amount for a single category.
func CategoryTotal(txs []core.Transaction, category string) core.Money {
	var total core.Money
	for _, t := range txs {
		if t.Kind == core.Expense && t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total
}
