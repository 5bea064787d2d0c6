package bills

import (
	"testing"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
)

var now = time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)

func bill(name, due string, paid bool) *api.Bill {
	return &api.Bill{ID: name, Name: name, Amount: 100, DueDate: due, Category: "utilities", Paid: paid}
}

func TestDaysUntilDue(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want int
	}{
		{"due today", "2025-01-15", 0},
		{"due tomorrow", "2025-01-16", 1},
		{"due in three days", "2025-01-18", 3},
		{"overdue", "2025-01-10", -5},
		{"malformed date", "soon", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntilDue(bill("b", tc.due, false), now); got != tc.want {
				t.Errorf("DaysUntilDue(%q) = %d, want %d", tc.due, got, tc.want)
			}
		})
	}
}

func TestOverdue(t *testing.T) {
	all := []*api.Bill{
		bill("rent", "2025-01-01", false),
		bill("water", "2025-01-10", false),
		bill("paid-late", "2025-01-01", true),
		bill("due-today", "2025-01-15", false),
		bill("future", "2025-02-01", false),
	}

	got := Overdue(all, now)
	if len(got) != 2 {
		t.Fatalf("got %d overdue, want 2", len(got))
	}
	if got[0].Name != "rent" || got[1].Name != "water" {
		t.Errorf("order: got %s, %s", got[0].Name, got[1].Name)
	}
}

func TestDueSoon(t *testing.T) {
	all := []*api.Bill{
		bill("overdue", "2025-01-14", false),
		bill("today", "2025-01-15", false),
		bill("edge", "2025-01-18", false),
		bill("beyond", "2025-01-19", false),
		bill("paid", "2025-01-16", true),
	}

	got := DueSoon(all, now)
	if len(got) != 2 {
		t.Fatalf("got %d due soon, want 2", len(got))
	}
	if got[0].Name != "today" || got[1].Name != "edge" {
		t.Errorf("got %s, %s", got[0].Name, got[1].Name)
	}
}

func TestUpcoming(t *testing.T) {
	all := []*api.Bill{
		bill("c", "2025-03-01", false),
		bill("a", "2025-01-20", false),
		bill("paid", "2025-01-18", true),
		bill("b", "2025-02-01", false),
	}

	got := Upcoming(all, 2)
	if len(got) != 2 {
		t.Fatalf("got %d, want 2", len(got))
	}
	if got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("got %s, %s", got[0].Name, got[1].Name)
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name string
		due  string
		freq api.Frequency
		want string
	}{
		{"monthly", "2025-01-15", api.Monthly, "2025-02-15"},
		{"quarterly", "2025-01-15", api.Quarterly, "2025-04-15"},
		{"yearly", "2025-01-15", api.Yearly, "2026-01-15"},
		{"monthly across year end", "2024-12-31", api.Monthly, "2025-01-31"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextDueDate(tc.due, tc.freq)
			if err != nil {
				t.Fatalf("NextDueDate: %v", err)
			}
			if got != tc.want {
				t.Errorf("NextDueDate(%q, %s) = %q, want %q", tc.due, tc.freq, got, tc.want)
			}
		})
	}

	if _, err := NextDueDate("2025-01-15", api.Frequency("weekly")); err == nil {
		t.Error("expected error for unknown frequency")
	}
	if _, err := NextDueDate("not-a-date", api.Monthly); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestRenew(t *testing.T) {
	freq := api.Monthly
	b := &api.Bill{Name: "Rent", Amount: 1500, DueDate: "2025-01-01", Category: "rent", Recurring: true, Frequency: &freq, Paid: true}

	next, err := Renew(b, now)
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}
	if next == nil {
		t.Fatal("expected next instance for recurring bill")
	}
	if next.DueDate != "2025-02-01" || next.Paid {
		t.Errorf("next instance: %+v", next)
	}

	oneOff := bill("once", "2025-01-01", true)
	next, err = Renew(oneOff, now)
	if err != nil || next != nil {
		t.Errorf("non-recurring bill: got %+v, %v, want nil, nil", next, err)
	}
}

func txn(kind api.Kind, amount float64, date string) *api.Transaction {
	return &api.Transaction{ID: date, Kind: kind, Amount: amount, Category: "food", Date: date, Source: api.SourceManual}
}

func TestHighSpending(t *testing.T) {
	txns := []*api.Transaction{
		txn(api.Expense, 1000, "2024-11-10"),
		txn(api.Expense, 1000, "2024-12-10"),
		txn(api.Expense, 5000, "2025-01-10"),
	}

	current, average, high := HighSpending(txns, now)
	if !high {
		t.Error("expected high spending alert")
	}
	if current != 5000 || average != 1000 {
		t.Errorf("got current %v average %v", current, average)
	}

	_, _, high = HighSpending(txns[:1], now)
	if high {
		t.Error("no alert expected when only history exists")
	}

	_, _, high = HighSpending([]*api.Transaction{txn(api.Expense, 5000, "2025-01-10")}, now)
	if high {
		t.Error("no alert expected without any spending history")
	}
}

func TestNotify_PriorityOrder(t *testing.T) {
	overdueBill := bill("rent", "2025-01-01", false)
	soonBill := bill("water", "2025-01-16", false)
	spendy := []*api.Transaction{
		txn(api.Expense, 100, "2024-12-10"),
		txn(api.Expense, 5000, "2025-01-10"),
	}

	t.Run("overdue wins", func(t *testing.T) {
		n := Notify([]*api.Bill{overdueBill, soonBill}, spendy, now)
		if n == nil || n.Severity != High {
			t.Fatalf("got %+v, want high severity", n)
		}
	})

	t.Run("due soon next", func(t *testing.T) {
		n := Notify([]*api.Bill{soonBill}, spendy, now)
		if n == nil || n.Severity != Medium {
			t.Fatalf("got %+v, want medium severity", n)
		}
	})

	t.Run("spending last", func(t *testing.T) {
		n := Notify(nil, spendy, now)
		if n == nil || n.Severity != Low {
			t.Fatalf("got %+v, want low severity", n)
		}
	})

	t.Run("quiet", func(t *testing.T) {
		if n := Notify(nil, nil, now); n != nil {
			t.Fatalf("got %+v, want nil", n)
		}
	})
}
