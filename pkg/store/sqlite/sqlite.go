// Package sqlite implements the store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
)

//go:embed schema.sql
var schema string

// Store persists transactions and bills in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("executing schema: %w", err)
	}

	logger.Info("sqlite store opened", "file", path)
	return &Store{db: db, logger: logger}, nil
}

const upsertTransaction = `
	INSERT INTO transactions (
		id, type, amount, category, description, date, created_at, source, merchant, account
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		type = excluded.type,
		amount = excluded.amount,
		category = excluded.category,
		description = excluded.description,
		date = excluded.date,
		source = excluded.source,
		merchant = excluded.merchant,
		account = excluded.account
`

// AddTransaction persists a transaction, assigning ID and CreatedAt when empty.
func (s *Store) AddTransaction(ctx context.Context, t *api.Transaction) error {
	store.StampTransaction(t)

	_, err := s.db.ExecContext(ctx, upsertTransaction,
		t.ID, string(t.Kind), t.Amount, t.Category, t.Description,
		t.Date, t.CreatedAt, t.Source, t.Merchant, t.Account,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

// AddTransactions persists a batch inside one database transaction.
func (s *Store) AddTransactions(ctx context.Context, ts []*api.Transaction) error {
	if len(ts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertTransaction)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		store.StampTransaction(t)
		if _, err := stmt.ExecContext(ctx,
			t.ID, string(t.Kind), t.Amount, t.Category, t.Description,
			t.Date, t.CreatedAt, t.Source, t.Merchant, t.Account,
		); err != nil {
			return fmt.Errorf("inserting transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*api.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, amount, category, description, date, created_at, source, merchant, account
		FROM transactions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var out []*api.Transaction
	for rows.Next() {
		var t api.Transaction
		var kind string
		var merchant, account sql.NullString
		if err := rows.Scan(&t.ID, &kind, &t.Amount, &t.Category, &t.Description,
			&t.Date, &t.CreatedAt, &t.Source, &merchant, &account); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Kind = api.Kind(kind)
		if merchant.Valid {
			t.Merchant = &merchant.String
		}
		if account.Valid {
			t.Account = &account.String
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, t *api.Transaction) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, amount = ?, category = ?, description = ?, date = ?, source = ?, merchant = ?, account = ?
		WHERE id = ?
	`, string(t.Kind), t.Amount, t.Category, t.Description, t.Date, t.Source, t.Merchant, t.Account, t.ID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return requireRow(res)
}

// AddBill persists a bill, assigning ID and CreatedAt when empty.
func (s *Store) AddBill(ctx context.Context, b *api.Bill) error {
	store.StampBill(b)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bills (id, name, amount, due_date, category, is_paid, is_recurring, frequency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			due_date = excluded.due_date,
			category = excluded.category,
			is_paid = excluded.is_paid,
			is_recurring = excluded.is_recurring,
			frequency = excluded.frequency
	`, b.ID, b.Name, b.Amount, b.DueDate, b.Category, b.Paid, b.Recurring, frequencyValue(b.Frequency), b.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting bill: %w", err)
	}
	return nil
}

func (s *Store) ListBills(ctx context.Context) ([]*api.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, due_date, category, is_paid, is_recurring, frequency, created_at
		FROM bills ORDER BY due_date
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bills: %w", err)
	}
	defer rows.Close()

	var out []*api.Bill
	for rows.Next() {
		var b api.Bill
		var freq sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount, &b.DueDate, &b.Category,
			&b.Paid, &b.Recurring, &freq, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}
		if freq.Valid {
			f := api.Frequency(freq.String)
			b.Frequency = &f
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBill(ctx context.Context, b *api.Bill) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bills
		SET name = ?, amount = ?, due_date = ?, category = ?, is_paid = ?, is_recurring = ?, frequency = ?
		WHERE id = ?
	`, b.Name, b.Amount, b.DueDate, b.Category, b.Paid, b.Recurring, frequencyValue(b.Frequency), b.ID)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteBill(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}
	return requireRow(res)
}

// SetBillPaid flips the paid flag on a bill.
func (s *Store) SetBillPaid(ctx context.Context, id string, paid bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE bills SET is_paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		return fmt.Errorf("updating bill paid flag: %w", err)
	}
	return requireRow(res)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func frequencyValue(f *api.Frequency) any {
	if f == nil {
		return nil
	}
	return string(*f)
}
