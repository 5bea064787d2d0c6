// Package store defines the storage interface shared by all backends.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/financeflow/financeflow/pkg/api"
)

// ErrNotFound is returned when a record with the given ID does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence interface. Implementations are safe for
// concurrent use.
type Store interface {
	// AddTransaction persists a transaction, assigning ID and CreatedAt
	// when they are empty.
	AddTransaction(ctx context.Context, t *api.Transaction) error
	// AddTransactions persists a batch in a single write where the backend
	// supports it. Duplicate IDs are upserted.
	AddTransactions(ctx context.Context, ts []*api.Transaction) error
	ListTransactions(ctx context.Context) ([]*api.Transaction, error)
	UpdateTransaction(ctx context.Context, t *api.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// AddBill persists a bill, assigning ID and CreatedAt when empty.
	AddBill(ctx context.Context, b *api.Bill) error
	ListBills(ctx context.Context) ([]*api.Bill, error)
	UpdateBill(ctx context.Context, b *api.Bill) error
	DeleteBill(ctx context.Context, id string) error
	// SetBillPaid flips the paid flag on a bill.
	SetBillPaid(ctx context.Context, id string, paid bool) error

	Close() error
}

// StampTransaction fills in ID and CreatedAt when empty. Date defaults to
// today so a record is never stored without one.
func StampTransaction(t *api.Transaction) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt == "" {
		t.CreatedAt = now.Format(time.RFC3339)
	}
	if t.Date == "" {
		t.Date = now.Format("2006-01-02")
	}
}

// StampBill fills in ID and CreatedAt when empty.
func StampBill(b *api.Bill) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().Format(time.RFC3339)
	}
}
