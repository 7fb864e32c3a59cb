package http

import (
	"fmt"
	"time"

	"finwise/internal/core"
	"finwise/internal/finance"
)

// barRow is one labelled amount with a bar width in percent, for the CSS bar
// charts the partials render.
type barRow struct {
	Label  string
	Amount string
	Width  int
}

type txRow struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      string
	Kind        string
	IsExpense   bool
}

type dashboardView struct {
	Income      string
	Expenses    string
	Net         string
	NetNegative bool
	SavingsRate string

	TopCategories []barRow
	Recent        []txRow

	// Month-to-date insights
	DailyAverage   string
	LargestExpense string
	MonthCount     int
}

type monthRow struct {
	Label    string
	Income   string
	Expenses string
	Savings  string

	IncomeWidth  int
	ExpenseWidth int
}

type reportsView struct {
	TotalIncome   string
	TotalExpenses string
	NetSavings    string
	NetNegative   bool

	Months        []monthRow
	MonthName     string
	Categories    []barRow
	Week          []barRow
	WeeklyAverage string
}

func transactionRow(t core.Transaction) txRow {
	return txRow{
		ID:          t.ID,
		Date:        t.Date.Format("01/02/2006"),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.Format(),
		Kind:        string(t.Kind),
		IsExpense:   t.Kind == core.Expense,
	}
}

// barWidth scales cents against the largest value in the series, rounded to a
// percent and floored at 2 so tiny values stay visible.
func barWidth(cents, max int64) int {
	if max <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + max/2) / max)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func (s *Server) buildDashboard(now time.Time) dashboardView {
	txs := s.store.Transactions()
	summary := finance.Summarize(txs)

	view := dashboardView{
		Income:      summary.Income.Format(),
		Expenses:    summary.Expenses.Format(),
		Net:         summary.Net.Format(),
		NetNegative: summary.Net.Cents < 0,
		SavingsRate: fmt.Sprintf("%.1f%%", summary.SavingsRate),
	}

	top := finance.TopCategories(txs, 5)
	var maxCents int64
	for _, c := range top {
		if c.Amount.Cents > maxCents {
			maxCents = c.Amount.Cents
		}
	}
	for _, c := range top {
		view.TopCategories = append(view.TopCategories, barRow{
			Label:  c.Name,
			Amount: c.Amount.Format(),
			Width:  barWidth(c.Amount.Cents, maxCents),
		})
	}

	for i, t := range txs {
		if i == 5 {
			break
		}
		view.Recent = append(view.Recent, transactionRow(t))
	}

	month := finance.MonthWindow(now)
	view.DailyAverage = finance.DailyAverage(txs, now).Format()
	view.LargestExpense = finance.LargestExpense(txs, month).Format()
	view.MonthCount = finance.CountInWindow(txs, month)
	return view
}

func (s *Server) buildReports(now time.Time) reportsView {
	txs := s.store.Transactions()
	summary := finance.Summarize(txs)

	view := reportsView{
		TotalIncome:   summary.Income.Format(),
		TotalExpenses: summary.Expenses.Format(),
		NetSavings:    summary.Net.Format(),
		NetNegative:   summary.Net.Cents < 0,
		MonthName:     now.Format("January"),
	}

	months := finance.MonthlySeries(txs, now, 6)
	var maxMonth int64
	for _, m := range months {
		if m.Income.Cents > maxMonth {
			maxMonth = m.Income.Cents
		}
		if m.Expenses.Cents > maxMonth {
			maxMonth = m.Expenses.Cents
		}
	}
	for _, m := range months {
		view.Months = append(view.Months, monthRow{
			Label:        m.Label,
			Income:       m.Income.Format(),
			Expenses:     m.Expenses.Format(),
			Savings:      m.Savings.Format(),
			IncomeWidth:  barWidth(m.Income.Cents, maxMonth),
			ExpenseWidth: barWidth(m.Expenses.Cents, maxMonth),
		})
	}

	breakdown := finance.CategoryBreakdown(finance.Windowed(txs, finance.MonthWindow(now)))
	var maxCat int64
	for _, c := range breakdown {
		if c.Amount.Cents > maxCat {
			maxCat = c.Amount.Cents
		}
	}
	for _, c := range breakdown {
		view.Categories = append(view.Categories, barRow{
			Label:  c.Name,
			Amount: c.Amount.Format(),
			Width:  barWidth(c.Amount.Cents, maxCat),
		})
	}

	week := finance.WeeklySeries(txs, now)
	var weekTotal, maxDay int64
	for _, d := range week {
		weekTotal += d.Amount.Cents
		if d.Amount.Cents > maxDay {
			maxDay = d.Amount.Cents
		}
	}
	for _, d := range week {
		view.Week = append(view.Week, barRow{
			Label:  d.Label,
			Amount: d.Amount.Format(),
			Width:  barWidth(d.Amount.Cents, maxDay),
		})
	}
	view.WeeklyAverage = core.Money{Cents: weekTotal / 7}.Format()
	return view
}
