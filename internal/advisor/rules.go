package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finwise/internal/core"
	"finwise/internal/finance"
)

func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func adviseSpending(s snapshot) string {
	if s.summary.Expenses.Cents == 0 {
		return "You haven't logged any expenses yet. Start tracking your spending to get personalized insights!"
	}

	topName, topAmount := "N/A", core.Money{}
	if top := finance.TopCategories(s.txs, 1); len(top) > 0 {
		topName, topAmount = top[0].Name, top[0].Amount
	}

	direction := "within"
	if s.summary.SavingsRate < 0 {
		direction = "beyond"
	}
	remark := "✅ Great job maintaining a healthy savings rate!"
	if s.summary.SavingsRate < 20 {
		remark = "⚠️ Try to save at least 20% of your income. Consider reducing discretionary spending."
	}

	return fmt.Sprintf("Based on your spending data:\n\n💰 Total expenses: %s\n📊 Top category: %s (%s)\n📉 You're spending %s your income.\n\n%s",
		s.summary.Expenses.Format(), topName, topAmount.Format(), direction, remark)
}

func adviseSaving(s snapshot) string {
	income := s.summary.Income

	// exceedsShare reports category > income*pct without float rounding
	exceedsShare := func(category string, pct int64) bool {
		total := finance.CategoryTotal(s.txs, category)
		return total.Cents*100 > income.Cents*pct
	}

	var recommendations []string
	if s.summary.SavingsRate < 20 {
		recommendations = append(recommendations, "• Aim to save at least 20% of your income")
	}
	if exceedsShare("Food & Dining", 15) {
		recommendations = append(recommendations, "• Your food spending is high - try meal prepping to save 30-40%")
	}
	if exceedsShare("Entertainment", 10) {
		recommendations = append(recommendations, "• Consider free entertainment alternatives to reduce costs")
	}
	if exceedsShare("Shopping", 10) {
		recommendations = append(recommendations, "• Use the 24-hour rule before making non-essential purchases")
	}

	if len(recommendations) == 0 {
		return "You're doing great with your savings! Keep maintaining your current habits and consider increasing your savings rate gradually."
	}

	estimated := s.summary.Expenses.Decimal().Mul(decimal.NewFromFloat(0.15))
	return fmt.Sprintf("Here are personalized savings tips for you:\n\n%s\n\nImplementing these could save you %s/month!",
		strings.Join(recommendations, "\n"), usd(estimated))
}

// budgetAllocations is the recommended 50/30/20-style split, rendered in
// this exact order.
var budgetAllocations = []struct {
	Category string
	Percent  int64
}{
	{"Housing", 30},
	{"Food & Dining", 15},
	{"Transportation", 15},
	{"Savings", 20},
	{"Entertainment", 5},
	{"Other", 15},
}

func adviseBudget(s snapshot) string {
	var lines []string
	for _, alloc := range budgetAllocations {
		amount := s.summary.Income.Decimal().
			Mul(decimal.New(alloc.Percent, -2))
		lines = append(lines, fmt.Sprintf("%s: %s (%d%%)", alloc.Category, usd(amount), alloc.Percent))
	}
	return fmt.Sprintf("Recommended budget breakdown (50/30/20 rule):\n\n%s\n\nAdjust based on your lifestyle and location!",
		strings.Join(lines, "\n"))
}

func adviseGoals(s snapshot) string {
	if len(s.goals) == 0 {
		return "You haven't set any savings goals yet. I recommend starting with:\n\n1. Emergency Fund (3-6 months expenses)\n2. Short-term goals (vacation, gadgets)\n3. Long-term goals (home, retirement)\n\nStart with one achievable goal to build momentum!"
	}

	var lines []string
	for _, g := range s.goals {
		var pct float64
		if g.TargetAmount.Cents > 0 {
			pct, _ = g.CurrentAmount.Decimal().
				Div(g.TargetAmount.Decimal()).
				Mul(decimal.NewFromInt(100)).
				Float64()
		}
		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		lines = append(lines, fmt.Sprintf("📌 %s: %.0f%% (%s remaining)", g.Name, pct, remaining.Format()))
	}

	closing := "Focus on increasing income or reducing expenses to fund your goals."
	if s.summary.Net.Cents > 0 {
		allocation := s.summary.Net.Decimal().Mul(decimal.NewFromFloat(0.8))
		closing = fmt.Sprintf("With your current savings rate, allocate %s/month to goals!", usd(allocation))
	}

	return fmt.Sprintf("Your savings goals progress: %.1f%%\n\n%s\n\n%s",
		finance.GoalsProgress(s.goals), strings.Join(lines, "\n"), closing)
}

func adviseIncome(s snapshot) string {
	return fmt.Sprintf("Your total income: %s\n\nWays to increase income:\n\n• Ask for a raise (research market rates)\n• Start a side hustle aligned with your skills\n• Freelance in your spare time\n• Invest in upskilling for better opportunities\n• Sell unused items\n\nEven an extra $500/month can make a huge difference!",
		s.summary.Income.Format())
}

func adviseOverview(s snapshot) string {
	remark := "⚠️ Try to increase your savings rate to 20%"
	if s.summary.SavingsRate >= 20 {
		remark = "✅ You're on track!"
	}
	return fmt.Sprintf("📊 Financial Overview:\n\n💵 Income: %s\n💸 Expenses: %s\n💰 Net Savings: %s\n📈 Savings Rate: %.1f%%\n🎯 Active Goals: %d\n\n%s\n\nAsk me about specific areas like spending, savings, or budget advice!",
		s.summary.Income.Format(), s.summary.Expenses.Format(), s.summary.Net.Format(),
		s.summary.SavingsRate, len(s.goals), remark)
}

func adviseDefault(snapshot) string {
	return "I can help you with:\n\n• Analyzing your spending patterns\n• Savings tips and strategies\n• Budget recommendations\n• Savings goal advice\n• Income optimization ideas\n\nTry asking: 'How can I save more?' or 'Analyze my spending'"
}
