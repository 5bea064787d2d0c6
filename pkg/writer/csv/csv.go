// Package csv implements a Writer that appends candidates to a CSV file.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/writer/buffered"
)

// Writer writes candidates to a CSV file with buffered batching.
type Writer struct {
	filePath string
	file     *os.File
	writer   *csv.Writer
	mu       sync.Mutex
	buffered *buffered.Writer
	logger   *slog.Logger
}

// Config holds configuration for the CSV writer.
type Config struct {
	// FilePath is the path to the CSV output file.
	FilePath string
	// BatchSize is the number of candidates to buffer before writing.
	BatchSize int
	// FlushInterval is the time between automatic flushes.
	FlushInterval time.Duration
}

// New creates a CSV writer, appending to an existing file or starting a new
// one with a header row.
func New(cfg Config, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}

	w := &Writer{
		filePath: cfg.FilePath,
		file:     file,
		writer:   csv.NewWriter(file),
		logger:   logger,
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat csv file: %w", err)
	}
	if stat.Size() == 0 {
		if err := w.writeHeaders(); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing headers: %w", err)
		}
	}

	w.buffered = buffered.New(w.flushBatch, buffered.Config{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
	}, logger.With("component", "csv_buffer"))

	logger.Info("csv writer initialized", "file", cfg.FilePath)
	return w, nil
}

func (w *Writer) writeHeaders() error {
	headers := []string{"Date", "Type", "Amount", "Category", "Description", "Merchant", "Account", "Source"}
	if err := w.writer.Write(headers); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Write consumes candidates from the input channel and writes them to CSV.
// The file is closed before returning; a failed close surfaces as the
// returned error so a lost final flush is never silent.
func (w *Writer) Write(ctx context.Context, in <-chan *api.Candidate, ackChan chan<- string) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return w.buffered.Write(ctx, in, ackChan)
}

// flushBatch writes a batch of candidates to the CSV file.
func (w *Writer) flushBatch(candidates []*api.Candidate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	date := time.Now().Format("2006-01-02")
	for _, c := range candidates {
		record := []string{
			date,
			string(c.Kind),
			strconv.FormatFloat(c.Amount, 'f', 2, 64),
			c.Category,
			c.Description,
			deref(c.Merchant),
			deref(c.Account),
			c.Source,
		}
		if err := w.writer.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	w.logger.Debug("wrote candidates to csv", "count", len(candidates))
	return nil
}

// Close closes the CSV file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing csv file: %w", err)
	}

	w.logger.Info("csv writer closed", "file", w.filePath)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
