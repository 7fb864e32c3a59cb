package finance

import (
	"strings"
	"time"

	"finwise/internal/core"
)

// Window is an inclusive calendar date range.
type Window struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d core.Date) bool {
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

// MonthWindow returns the calendar month containing ref.
func MonthWindow(ref time.Time) Window {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Window{Start: core.DateOf(start), End: core.DateOf(end)}
}

// LastDays returns the n-day window ending on ref's date, ref included.
func LastDays(ref time.Time, n int) Window {
	end := core.DateOf(ref)
	start := core.DateOf(ref.AddDate(0, 0, -(n - 1)))
	return Window{Start: start, End: end}
}

// Windowed filters transactions to those dated inside w.
func Windowed(txs []core.Transaction, w Window) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// MonthPoint is one month of the income/expense trend series.
type MonthPoint struct {
	Year     int
	Month    time.Month
	Label    string // short month name, e.g. "Jan"
	Income   core.Money
	Expenses core.Money
	Savings  core.Money
}

// MonthlySeries computes the per-month trend for the `months` calendar
// months ending with the month of ref, oldest first.
func MonthlySeries(txs []core.Transaction, ref time.Time, months int) []MonthPoint {
	// Step from the first of the reference month. Stepping from ref itself
	// would normalize short months (Oct 31 minus one month is "Sep 31",
	// which is Oct 1) and duplicate or skip buckets.
	base := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		w := MonthWindow(base.AddDate(0, -i, 0))
		sub := Windowed(txs, w)
		income := Totals(sub, core.Income)
		expenses := Totals(sub, core.Expense)
		out = append(out, MonthPoint{
			Year:     w.Start.Year(),
			Month:    w.Start.Month(),
			Label:    w.Start.Format("Jan"),
			Income:   income,
			Expenses: expenses,
			Savings:  income.Sub(expenses),
		})
	}
	return out
}

// DayPoint is one day of the weekly spending series.
type DayPoint struct {
	Date   core.Date
	Label  string // short weekday name, e.g. "Mon"
	Amount core.Money
}

// WeeklySeries computes expense totals for the 7 days ending on ref's date,
// oldest first.
func WeeklySeries(txs []core.Transaction, ref time.Time) []DayPoint {
	out := make([]DayPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := core.DateOf(ref.AddDate(0, 0, -i))
		var total core.Money
		for _, t := range txs {
			if t.Kind == core.Expense && t.Date.Equal(day.Time) {
				total = total.Add(t.Amount)
			}
		}
		out = append(out, DayPoint{Date: day, Label: day.Format("Mon"), Amount: total})
	}
	return out
}

// DailyAverage is the month-to-date expense total divided by the day of the
// month of ref.
func DailyAverage(txs []core.Transaction, ref time.Time) core.Money {
	spent := Totals(Windowed(txs, MonthWindow(ref)), core.Expense)
	day := int64(ref.Day())
	if day == 0 {
		return core.Money{}
	}
	return core.Money{Cents: spent.Cents / day}
}

// LargestExpense returns the single largest expense amount inside w.
func LargestExpense(txs []core.Transaction, w Window) core.Money {
	var max core.Money
	for _, t := range txs {
		if t.Kind == core.Expense && w.Contains(t.Date) && t.Amount.Cents > max.Cents {
			max = t.Amount
		}
	}
	return max
}

// CountInWindow counts transactions of either kind dated inside w.
func CountInWindow(txs []core.Transaction, w Window) int {
	n := 0
	for _, t := range txs {
		if w.Contains(t.Date) {
			n++
		}
	}
	return n
}

// ListFilter narrows the transaction list view. Zero values disable the
// corresponding criterion.
type ListFilter struct {
	Search   string    // matched case-insensitively against description and category
	Category string    // exact category
	Kind     core.Kind // income or expense
}

// FilterList applies f to txs, preserving order.
func FilterList(txs []core.Transaction, f ListFilter) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []core.Transaction
	for _, t := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		out = append(out, t)
	}
	return out
}
