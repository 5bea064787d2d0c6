// Package jsonfile implements the store on a single JSON file. It is the
// default backend: no external services, human-readable data, and the whole
// state rewrites on every change since JSON does not support appending.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
)

// ExportVersion is stamped on export bundles.
const ExportVersion = "1.0"

type payload struct {
	Transactions []*api.Transaction `json:"transactions"`
	Bills        []*api.Bill        `json:"bills"`
}

// Bundle is the export/import envelope.
type Bundle struct {
	Transactions []*api.Transaction `json:"transactions"`
	Bills        []*api.Bill        `json:"bills"`
	ExportDate   string             `json:"exportDate"`
	Version      string             `json:"version"`
}

// Store persists transactions and bills in one JSON file.
type Store struct {
	path   string
	mu     sync.Mutex
	data   payload
	logger *slog.Logger
}

// New opens (or creates) the store at path. Records that fail validation
// are dropped with a warning rather than failing the load.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{path: path, logger: logger}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading data file: %w", err)
	}

	logger.Info("json store opened",
		"file", path,
		"transactions", len(s.data.Transactions),
		"bills", len(s.data.Bills),
	)
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	dropped := 0
	for _, t := range p.Transactions {
		if validTransaction(t) {
			s.data.Transactions = append(s.data.Transactions, t)
		} else {
			dropped++
		}
	}
	for _, b := range p.Bills {
		if b != nil && b.ID != "" && b.Name != "" {
			s.data.Bills = append(s.data.Bills, b)
		} else {
			dropped++
		}
	}

	if dropped > 0 {
		s.logger.Warn("dropped invalid records on load", "count", dropped)
	}
	return nil
}

func validTransaction(t *api.Transaction) bool {
	if t == nil || t.ID == "" || t.Amount <= 0 {
		return false
	}
	return t.Kind == api.Income || t.Kind == api.Expense
}

// save rewrites the whole file. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling data: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	return nil
}

// AddTransaction persists a transaction, assigning ID and CreatedAt when empty.
func (s *Store) AddTransaction(_ context.Context, t *api.Transaction) error {
	store.StampTransaction(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Transactions = append(s.data.Transactions, t)
	return s.save()
}

// AddTransactions persists a batch in one file rewrite. Existing IDs are
// replaced in place.
func (s *Store) AddTransactions(_ context.Context, ts []*api.Transaction) error {
	if len(ts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range ts {
		store.StampTransaction(t)
		if i := s.findTransaction(t.ID); i >= 0 {
			s.data.Transactions[i] = t
		} else {
			s.data.Transactions = append(s.data.Transactions, t)
		}
	}
	return s.save()
}

func (s *Store) ListTransactions(_ context.Context) ([]*api.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*api.Transaction, len(s.data.Transactions))
	copy(out, s.data.Transactions)
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t *api.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findTransaction(t.ID)
	if i < 0 {
		return store.ErrNotFound
	}
	s.data.Transactions[i] = t
	return s.save()
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findTransaction(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.data.Transactions = append(s.data.Transactions[:i], s.data.Transactions[i+1:]...)
	return s.save()
}

func (s *Store) findTransaction(id string) int {
	for i, t := range s.data.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddBill persists a bill, assigning ID and CreatedAt when empty.
func (s *Store) AddBill(_ context.Context, b *api.Bill) error {
	store.StampBill(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Bills = append(s.data.Bills, b)
	return s.save()
}

func (s *Store) ListBills(_ context.Context) ([]*api.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*api.Bill, len(s.data.Bills))
	copy(out, s.data.Bills)
	return out, nil
}

func (s *Store) UpdateBill(_ context.Context, b *api.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findBill(b.ID)
	if i < 0 {
		return store.ErrNotFound
	}
	s.data.Bills[i] = b
	return s.save()
}

func (s *Store) DeleteBill(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findBill(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.data.Bills = append(s.data.Bills[:i], s.data.Bills[i+1:]...)
	return s.save()
}

// SetBillPaid flips the paid flag on a bill.
func (s *Store) SetBillPaid(_ context.Context, id string, paid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findBill(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.data.Bills[i].Paid = paid
	return s.save()
}

func (s *Store) findBill(id string) int {
	for i, b := range s.data.Bills {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Export writes the full state as a versioned bundle. The bundle shares
// backing arrays with live state, so encoding happens under the lock.
func (s *Store) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bundle := Bundle{
		Transactions: s.data.Transactions,
		Bills:        s.data.Bills,
		ExportDate:   time.Now().Format(time.RFC3339),
		Version:      ExportVersion,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encoding export bundle: %w", err)
	}
	return nil
}

// Import reads a bundle. With replace set the current state is discarded;
// otherwise records merge by ID with imported records winning.
func (s *Store) Import(r io.Reader, replace bool) error {
	var bundle Bundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return fmt.Errorf("decoding import bundle: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.data = payload{}
	}
	for _, t := range bundle.Transactions {
		if !validTransaction(t) {
			continue
		}
		if i := s.findTransaction(t.ID); i >= 0 {
			s.data.Transactions[i] = t
		} else {
			s.data.Transactions = append(s.data.Transactions, t)
		}
	}
	for _, b := range bundle.Bills {
		if b == nil || b.ID == "" || b.Name == "" {
			continue
		}
		if i := s.findBill(b.ID); i >= 0 {
			s.data.Bills[i] = b
		} else {
			s.data.Bills = append(s.data.Bills, b)
		}
	}
	return s.save()
}

// ClearAll removes every record.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = payload{}
	return s.save()
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close() error {
	return nil
}
