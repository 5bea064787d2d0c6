package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data.json"), nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestAddTransaction_AssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	txn := &api.Transaction{Kind: api.Expense, Amount: 120, Category: "food", Description: "Lunch", Source: api.SourceManual}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if txn.ID == "" {
		t.Error("expected generated ID")
	}
	if txn.CreatedAt == "" {
		t.Error("expected CreatedAt to be set")
	}
	if txn.Date == "" {
		t.Error("expected Date to default to today")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	ctx := context.Background()

	s, err := New(path, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	txn := &api.Transaction{Kind: api.Income, Amount: 500, Category: "salary", Description: "Pay", Source: api.SourceManual}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	reopened, err := New(path, nil)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got, err := reopened.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 || got[0].ID != txn.ID {
		t.Errorf("expected 1 transaction with ID %s, got %+v", txn.ID, got)
	}
}

func TestLoad_DropsInvalidRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	raw := []byte(`{
		"transactions": [
			{"id": "t1", "type": "expense", "amount": 50, "category": "food", "description": "ok"},
			{"id": "", "type": "expense", "amount": 50},
			{"id": "t3", "type": "expense", "amount": 0},
			{"id": "t4", "type": "mystery", "amount": 10}
		],
		"bills": [
			{"id": "b1", "name": "Rent", "amount": 1000, "dueDate": "2025-02-01"},
			{"id": "b2", "name": ""}
		]
	}`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s, err := New(path, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	txns, _ := s.ListTransactions(context.Background())
	if len(txns) != 1 || txns[0].ID != "t1" {
		t.Errorf("expected only t1 to survive, got %+v", txns)
	}
	bills, _ := s.ListBills(context.Background())
	if len(bills) != 1 || bills[0].ID != "b1" {
		t.Errorf("expected only b1 to survive, got %+v", bills)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	txn := &api.Transaction{Kind: api.Expense, Amount: 75, Category: "food", Description: "Dinner", Source: api.SourceManual}
	if err := s.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	txn.Amount = 85
	if err := s.UpdateTransaction(ctx, txn); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	got, _ := s.ListTransactions(ctx)
	if got[0].Amount != 85 {
		t.Errorf("amount after update: got %v, want 85", got[0].Amount)
	}

	if err := s.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	got, _ = s.ListTransactions(ctx)
	if len(got) != 0 {
		t.Errorf("expected empty store after delete, got %d records", len(got))
	}

	if err := s.DeleteTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleting missing record: got %v, want ErrNotFound", err)
	}
}

func TestSetBillPaid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bill := &api.Bill{Name: "Electricity", Amount: 90, DueDate: "2025-03-01", Category: "utilities"}
	if err := s.AddBill(ctx, bill); err != nil {
		t.Fatalf("AddBill: %v", err)
	}

	if err := s.SetBillPaid(ctx, bill.ID, true); err != nil {
		t.Fatalf("SetBillPaid: %v", err)
	}
	bills, _ := s.ListBills(ctx)
	if !bills[0].Paid {
		t.Error("expected bill to be marked paid")
	}

	if err := s.SetBillPaid(ctx, "missing", true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("paying missing bill: got %v, want ErrNotFound", err)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newTestStore(t)
	ctx := context.Background()

	txn := &api.Transaction{Kind: api.Expense, Amount: 42, Category: "shopping", Description: "Book", Source: api.SourceManual}
	bill := &api.Bill{Name: "Internet", Amount: 60, DueDate: "2025-04-01", Category: "utilities"}
	if err := src.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := src.AddBill(ctx, bill); err != nil {
		t.Fatalf("AddBill: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"version": "1.0"`)) {
		t.Error("export bundle missing version stamp")
	}

	dst := newTestStore(t)
	if err := dst.Import(bytes.NewReader(buf.Bytes()), false); err != nil {
		t.Fatalf("Import: %v", err)
	}

	txns, _ := dst.ListTransactions(ctx)
	bills, _ := dst.ListBills(ctx)
	if len(txns) != 1 || txns[0].ID != txn.ID {
		t.Errorf("imported transactions: got %+v", txns)
	}
	if len(bills) != 1 || bills[0].ID != bill.ID {
		t.Errorf("imported bills: got %+v", bills)
	}
}

func TestImport_MergeKeepsExistingAndReplaceDiscards(t *testing.T) {
	ctx := context.Background()

	src := newTestStore(t)
	imported := &api.Transaction{Kind: api.Income, Amount: 900, Category: "salary", Description: "Pay", Source: api.SourceManual}
	if err := src.AddTransaction(ctx, imported); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := newTestStore(t)
	existing := &api.Transaction{Kind: api.Expense, Amount: 10, Category: "food", Description: "Coffee", Source: api.SourceManual}
	if err := dst.AddTransaction(ctx, existing); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	if err := dst.Import(bytes.NewReader(buf.Bytes()), false); err != nil {
		t.Fatalf("Import merge: %v", err)
	}
	txns, _ := dst.ListTransactions(ctx)
	if len(txns) != 2 {
		t.Errorf("merge import: got %d transactions, want 2", len(txns))
	}

	if err := dst.Import(bytes.NewReader(buf.Bytes()), true); err != nil {
		t.Fatalf("Import replace: %v", err)
	}
	txns, _ = dst.ListTransactions(ctx)
	if len(txns) != 1 || txns[0].ID != imported.ID {
		t.Errorf("replace import: got %+v, want only the imported record", txns)
	}
}

func TestExport_ConcurrentWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			txn := &api.Transaction{Kind: api.Expense, Amount: 10, Category: "food", Description: "Snack", Source: api.SourceManual}
			if err := s.AddTransactions(ctx, []*api.Transaction{txn}); err != nil {
				t.Errorf("AddTransactions: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		var buf bytes.Buffer
		if err := s.Export(&buf); err != nil {
			t.Fatalf("Export: %v", err)
		}
		var bundle Bundle
		if err := json.Unmarshal(buf.Bytes(), &bundle); err != nil {
			t.Fatalf("export produced invalid JSON: %v", err)
		}
	}
	<-done
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddTransaction(ctx, &api.Transaction{Kind: api.Expense, Amount: 5, Category: "food", Description: "Snack", Source: api.SourceManual}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	txns, _ := s.ListTransactions(ctx)
	if len(txns) != 0 {
		t.Errorf("expected empty store, got %d records", len(txns))
	}
}
