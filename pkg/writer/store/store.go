// Package store implements a Writer that confirms candidates into a
// persistent store.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store"
	"github.com/financeflow/financeflow/pkg/writer/buffered"
)

// Writer converts candidates to transactions and writes them in batches.
type Writer struct {
	store    store.Store
	buffered *buffered.Writer
	logger   *slog.Logger
}

// Config holds configuration for the store writer.
type Config struct {
	// BatchSize is the number of candidates to buffer before writing.
	BatchSize int
	// FlushInterval is the time between automatic flushes.
	FlushInterval time.Duration
}

// New creates a writer backed by s.
func New(s store.Store, cfg Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Writer{store: s, logger: logger}
	w.buffered = buffered.New(w.flushBatch, buffered.Config{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
	}, logger.With("component", "store_buffer"))
	return w
}

// Write consumes candidates from the input channel and persists them.
func (w *Writer) Write(ctx context.Context, in <-chan *api.Candidate, ackChan chan<- string) error {
	return w.buffered.Write(ctx, in, ackChan)
}

// flushBatch converts a batch of candidates and stores it.
func (w *Writer) flushBatch(candidates []*api.Candidate) error {
	transactions := make([]*api.Transaction, 0, len(candidates))
	for _, c := range candidates {
		transactions = append(transactions, Confirm(c))
	}

	if err := w.store.AddTransactions(context.Background(), transactions); err != nil {
		return fmt.Errorf("storing batch: %w", err)
	}
	return nil
}

// Confirm turns an extracted candidate into a transaction dated today. The
// store fills in ID and CreatedAt on write.
func Confirm(c *api.Candidate) *api.Transaction {
	return &api.Transaction{
		Kind:        c.Kind,
		Amount:      c.Amount,
		Category:    c.Category,
		Description: c.Description,
		Date:        time.Now().Format("2006-01-02"),
		Source:      c.Source,
		Merchant:    c.Merchant,
		Account:     c.Account,
	}
}
