package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTransactionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	merchant := "AMAZON INDIA"
	txn := &api.Transaction{
		Kind:        api.Expense,
		Amount:      2500,
		Category:    "shopping",
		Description: "Payment to AMAZON INDIA",
		Source:      api.SourceSMS,
		Merchant:    &merchant,
	}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if txn.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Kind != api.Expense || got[0].Amount != 2500 {
		t.Errorf("round trip mismatch: %+v", got[0])
	}
	if got[0].Merchant == nil || *got[0].Merchant != merchant {
		t.Errorf("merchant: got %v, want %q", got[0].Merchant, merchant)
	}
	if got[0].Account != nil {
		t.Errorf("account: got %v, want nil", got[0].Account)
	}
}

func TestAddTransactions_Batch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := []*api.Transaction{
		{Kind: api.Expense, Amount: 100, Category: "food", Description: "Lunch", Source: api.SourceManual},
		{Kind: api.Income, Amount: 5000, Category: "salary", Description: "Pay", Source: api.SourceManual},
	}
	if err := s.AddTransactions(ctx, batch); err != nil {
		t.Fatalf("AddTransactions: %v", err)
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d transactions, want 2", len(got))
	}
}

func TestAddTransactions_UpsertsOnDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	txn := &api.Transaction{Kind: api.Expense, Amount: 100, Category: "food", Description: "Lunch", Source: api.SourceManual}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	dup := *txn
	dup.Amount = 150
	if err := s.AddTransactions(ctx, []*api.Transaction{&dup}); err != nil {
		t.Fatalf("AddTransactions: %v", err)
	}

	got, _ := s.ListTransactions(ctx)
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1 after upsert", len(got))
	}
	if got[0].Amount != 150 {
		t.Errorf("amount after upsert: got %v, want 150", got[0].Amount)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateTransaction(context.Background(), &api.Transaction{
		ID: "missing", Kind: api.Expense, Amount: 1, Category: "food", Description: "x", Source: api.SourceManual,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestBillRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	freq := api.Monthly
	bill := &api.Bill{
		Name:      "Rent",
		Amount:    1500,
		DueDate:   "2025-02-01",
		Category:  "rent",
		Recurring: true,
		Frequency: &freq,
	}
	if err := s.AddBill(ctx, bill); err != nil {
		t.Fatalf("AddBill: %v", err)
	}

	got, err := s.ListBills(ctx)
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d bills, want 1", len(got))
	}
	if got[0].Frequency == nil || *got[0].Frequency != api.Monthly {
		t.Errorf("frequency: got %v, want monthly", got[0].Frequency)
	}
	if got[0].Paid {
		t.Error("new bill should not be paid")
	}

	if err := s.SetBillPaid(ctx, bill.ID, true); err != nil {
		t.Fatalf("SetBillPaid: %v", err)
	}
	got, _ = s.ListBills(ctx)
	if !got[0].Paid {
		t.Error("expected bill to be marked paid")
	}

	if err := s.DeleteBill(ctx, bill.ID); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	if err := s.DeleteBill(ctx, bill.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	txn := &api.Transaction{Kind: api.Income, Amount: 300, Category: "freelance", Description: "Invoice", Source: api.SourceManual}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	s.Close()

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 || got[0].ID != txn.ID {
		t.Errorf("expected persisted transaction %s, got %+v", txn.ID, got)
	}
}
