// Package stats computes reporting aggregates over stored transactions.
// All functions are pure: they take a snapshot slice and a reference time,
// so results are reproducible in tests.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/categories"
)

// MonthPoint is one month in a series.
type MonthPoint struct {
	Label    string
	Year     int
	Month    time.Month
	Income   float64
	Expenses float64
}

// CategoryAmount is one category's expense total.
type CategoryAmount struct {
	Category string
	Name     string
	Amount   float64
}

// Summary holds the headline numbers for a month.
type Summary struct {
	Income        float64
	Expenses      float64
	Net           float64
	Balance       float64
	SavingsRate   float64
	IncomeGrowth  float64
	ExpenseGrowth float64
	NetGrowth     float64
	TopCategory   string
}

func inMonth(t *api.Transaction, year int, month time.Month) bool {
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))
	return len(t.Date) >= 7 && t.Date[:7] == prefix
}

// MonthTotals sums income and expenses for the given month.
func MonthTotals(txns []*api.Transaction, year int, month time.Month) (income, expenses float64) {
	for _, t := range txns {
		if !inMonth(t, year, month) {
			continue
		}
		switch t.Kind {
		case api.Income:
			income += t.Amount
		case api.Expense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// Balance is all-time income minus all-time expenses.
func Balance(txns []*api.Transaction) float64 {
	var balance float64
	for _, t := range txns {
		switch t.Kind {
		case api.Income:
			balance += t.Amount
		case api.Expense:
			balance -= t.Amount
		}
	}
	return balance
}

// Growth is the percent change from previous to current. A zero previous
// value yields zero rather than a division blow-up.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// NetGrowth is Growth over signed nets, normalized by the magnitude of the
// previous net so a negative-to-positive swing reads as positive growth.
func NetGrowth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	abs := previous
	if abs < 0 {
		abs = -abs
	}
	return (current - previous) / abs * 100
}

// SavingsRate is the share of income kept, in percent. Zero income yields
// zero.
func SavingsRate(income, expenses float64) float64 {
	if income == 0 {
		return 0
	}
	return (income - expenses) / income * 100
}

// MonthlySeries returns totals for the n months ending at now, oldest first.
func MonthlySeries(txns []*api.Transaction, now time.Time, n int) []MonthPoint {
	out := make([]MonthPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		year, month := ref.Year(), ref.Month()
		income, expenses := MonthTotals(txns, year, month)
		out = append(out, MonthPoint{
			Label:    ref.Format("Jan"),
			Year:     year,
			Month:    month,
			Income:   income,
			Expenses: expenses,
		})
	}
	return out
}

// CategoryBreakdown totals the month's expenses per category, sorted largest
// first and truncated to topK. topK <= 0 means no truncation.
func CategoryBreakdown(txns []*api.Transaction, year int, month time.Month, topK int) []CategoryAmount {
	totals := make(map[string]float64)
	for _, t := range txns {
		if t.Kind != api.Expense || !inMonth(t, year, month) {
			continue
		}
		totals[t.Category] += t.Amount
	}

	out := make([]CategoryAmount, 0, len(totals))
	for id, amount := range totals {
		out = append(out, CategoryAmount{Category: id, Name: categories.Name(id), Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// Recent returns the k most recently created transactions, newest first.
// The input slice is not modified.
func Recent(txns []*api.Transaction, k int) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Summarize computes the month's headline numbers relative to the previous
// month.
func Summarize(txns []*api.Transaction, now time.Time) Summary {
	year, month := now.Year(), now.Month()
	prev := now.AddDate(0, -1, 0)

	income, expenses := MonthTotals(txns, year, month)
	prevIncome, prevExpenses := MonthTotals(txns, prev.Year(), prev.Month())

	s := Summary{
		Income:        income,
		Expenses:      expenses,
		Net:           income - expenses,
		Balance:       Balance(txns),
		SavingsRate:   SavingsRate(income, expenses),
		IncomeGrowth:  Growth(income, prevIncome),
		ExpenseGrowth: Growth(expenses, prevExpenses),
		NetGrowth:     NetGrowth(income-expenses, prevIncome-prevExpenses),
	}

	if breakdown := CategoryBreakdown(txns, year, month, 1); len(breakdown) > 0 {
		s.TopCategory = breakdown[0].Name
	}
	return s
}
