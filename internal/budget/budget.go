// Package budget computes the derived values shown by the planner:
// income, expenses, balance and goal progress.
//
// Amounts are stored as float64 but summed as decimals so that a list
// of cents adds up to what the user typed.
package budget

import (
	"github.com/atinyakov/sbp/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// sum adds the amounts of all transactions of the given kind.
func sum(txs []models.Transaction, kind models.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Kind == kind {
			total = total.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return total
}

func usedIncome(txs []models.Transaction, declared float64) decimal.Decimal {
	// A declared income always wins, even when lower than the transaction sum.
	if declared > 0 {
		return decimal.NewFromFloat(declared)
	}
	return sum(txs, models.Income)
}

// TotalIncome returns the declared income when it is positive and the
// sum of income transactions otherwise.
func TotalIncome(txs []models.Transaction, declared float64) float64 {
	return usedIncome(txs, declared).InexactFloat64()
}

// TotalExpenses returns the sum of expense transactions.
func TotalExpenses(txs []models.Transaction) float64 {
	return sum(txs, models.Expense).InexactFloat64()
}

// Balance returns TotalIncome minus TotalExpenses. It may be negative.
func Balance(txs []models.Transaction, declared float64) float64 {
	return usedIncome(txs, declared).Sub(sum(txs, models.Expense)).InexactFloat64()
}

// Summarize computes all three dashboard values at once.
func Summarize(txs []models.Transaction, declared float64) models.Summary {
	income := usedIncome(txs, declared)
	expenses := sum(txs, models.Expense)
	return models.Summary{
		Income:   income.InexactFloat64(),
		Expenses: expenses.InexactFloat64(),
		Balance:  income.Sub(expenses).InexactFloat64(),
	}
}

// GoalProgress returns round(saved/target*100) clamped to [0, 100].
// Goals without a positive target report 0.
func GoalProgress(g models.Goal) int {
	if g.Target <= 0 || g.Saved <= 0 {
		return 0
	}
	pct := decimal.NewFromFloat(g.Saved).
		Div(decimal.NewFromFloat(g.Target)).
		Mul(hundred).
		Round(0)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return int(pct.IntPart())
}

// Progress annotates every goal with its completion percentage.
func Progress(goals []models.Goal) []models.GoalProgress {
	out := make([]models.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, models.GoalProgress{Goal: g, Percent: GoalProgress(g)})
	}
	return out
}

// Recent returns up to n transactions, newest first.
func Recent(txs []models.Transaction, n int) []models.Transaction {
	if n <= 0 {
		return nil
	}
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]models.Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		out = append(out, txs[i])
	}
	return out
}
