// Package bills tracks recurring obligations and derives payment alerts.
// Date math is calendar-day based: a bill due today is not overdue.
package bills

import (
	"fmt"
	"sort"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/stats"
)

// DueSoonDays is the window for the due-soon alert.
const DueSoonDays = 3

// Severity ranks notifications.
type Severity string

const (
	High   Severity = "high"
	Medium Severity = "medium"
	Low    Severity = "low"
)

// Notification is a single alert for the user.
type Notification struct {
	Severity Severity
	Title    string
	Message  string
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue returns whole days from now to the bill's due date. Negative
// means past due; a malformed due date reads as due today.
func DaysUntilDue(b *api.Bill, now time.Time) int {
	due, err := time.Parse("2006-01-02", b.DueDate)
	if err != nil {
		return 0
	}
	return int(dateOnly(due).Sub(dateOnly(now)).Hours() / 24)
}

// IsOverdue reports whether an unpaid bill's due date has passed.
func IsOverdue(b *api.Bill, now time.Time) bool {
	return !b.Paid && DaysUntilDue(b, now) < 0
}

// Overdue returns unpaid bills past their due date, oldest first.
func Overdue(bills []*api.Bill, now time.Time) []*api.Bill {
	var out []*api.Bill
	for _, b := range bills {
		if IsOverdue(b, now) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out
}

// DueSoon returns unpaid bills due within DueSoonDays, soonest first.
// Overdue bills are excluded; they already have a stronger alert.
func DueSoon(bills []*api.Bill, now time.Time) []*api.Bill {
	var out []*api.Bill
	for _, b := range bills {
		if b.Paid {
			continue
		}
		if days := DaysUntilDue(b, now); days >= 0 && days <= DueSoonDays {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out
}

// Upcoming returns the k unpaid bills with the nearest due dates. k <= 0
// means all of them.
func Upcoming(bills []*api.Bill, k int) []*api.Bill {
	var out []*api.Bill
	for _, b := range bills {
		if !b.Paid {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// NextDueDate advances a due date by one billing period.
func NextDueDate(dueDate string, freq api.Frequency) (string, error) {
	due, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		return "", fmt.Errorf("parsing due date %q: %w", dueDate, err)
	}

	switch freq {
	case api.Monthly:
		due = due.AddDate(0, 1, 0)
	case api.Quarterly:
		due = due.AddDate(0, 3, 0)
	case api.Yearly:
		due = due.AddDate(1, 0, 0)
	default:
		return "", fmt.Errorf("unknown frequency %q", freq)
	}
	return due.Format("2006-01-02"), nil
}

// Renew builds the next instance of a recurring bill after payment. The new
// bill is unpaid with the due date advanced one period; non-recurring bills
// yield nothing.
func Renew(b *api.Bill, now time.Time) (*api.Bill, error) {
	if !b.Recurring || b.Frequency == nil {
		return nil, nil
	}
	next, err := NextDueDate(b.DueDate, *b.Frequency)
	if err != nil {
		return nil, err
	}
	return &api.Bill{
		Name:      b.Name,
		Amount:    b.Amount,
		DueDate:   next,
		Category:  b.Category,
		Recurring: true,
		Frequency: b.Frequency,
		CreatedAt: now.Format(time.RFC3339),
	}, nil
}

// HighSpending reports whether this month's expenses exceed twice the
// average of recent months with activity.
func HighSpending(txns []*api.Transaction, now time.Time) (current, average float64, high bool) {
	series := stats.MonthlySeries(txns, now, 6)
	currentPoint := series[len(series)-1]

	var sum float64
	var months int
	for _, p := range series[:len(series)-1] {
		if p.Expenses > 0 {
			sum += p.Expenses
			months++
		}
	}
	if months == 0 {
		return currentPoint.Expenses, 0, false
	}

	average = sum / float64(months)
	return currentPoint.Expenses, average, currentPoint.Expenses > 2*average
}

// Notify returns the single most important alert, or nil when there is
// nothing to say. Overdue bills outrank due-soon bills, which outrank the
// spending warning.
func Notify(bills []*api.Bill, txns []*api.Transaction, now time.Time) *Notification {
	if overdue := Overdue(bills, now); len(overdue) > 0 {
		return &Notification{
			Severity: High,
			Title:    "Overdue bills",
			Message:  fmt.Sprintf("%d bill(s) past due, starting with %s", len(overdue), overdue[0].Name),
		}
	}

	if soon := DueSoon(bills, now); len(soon) > 0 {
		return &Notification{
			Severity: Medium,
			Title:    "Bills due soon",
			Message:  fmt.Sprintf("%s is due within %d days", soon[0].Name, DueSoonDays),
		}
	}

	if current, average, high := HighSpending(txns, now); high {
		return &Notification{
			Severity: Low,
			Title:    "High spending",
			Message:  fmt.Sprintf("This month's spending (%.2f) is more than double your recent average (%.2f)", current, average),
		}
	}

	return nil
}
