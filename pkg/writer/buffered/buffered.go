// Package buffered provides a buffered writer base for batch writes.
package buffered

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
)

// DefaultBatchSize is the default number of candidates to buffer before flushing.
const DefaultBatchSize = 10

// DefaultFlushInterval is the default interval between automatic flushes.
const DefaultFlushInterval = 30 * time.Second

// Flusher is called when the buffer needs to be flushed.
type Flusher func(candidates []*api.Candidate) error

// Config holds configuration for buffered writing.
type Config struct {
	// BatchSize is the number of candidates to buffer before flushing.
	// Defaults to DefaultBatchSize.
	BatchSize int
	// FlushInterval is the interval between automatic flushes.
	// Defaults to DefaultFlushInterval.
	FlushInterval time.Duration
}

// Writer buffers candidates and flushes them in batches. After a successful
// flush the message IDs of the flushed candidates are acknowledged.
type Writer struct {
	buffer  []*api.Candidate
	mu      sync.Mutex
	flusher Flusher
	config  Config
	logger  *slog.Logger
}

// New creates a buffered writer with the given flusher function.
func New(flusher Flusher, cfg Config, logger *slog.Logger) *Writer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		buffer:  make([]*api.Candidate, 0, cfg.BatchSize),
		flusher: flusher,
		config:  cfg,
		logger:  logger,
	}
}

// Write consumes candidates from the input channel and buffers them for
// batch writes. It returns when the channel closes or the context ends,
// flushing whatever remains first.
func (w *Writer) Write(ctx context.Context, in <-chan *api.Candidate, ackChan chan<- string) error {
	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	w.logger.Info("buffered writer started",
		"batch_size", w.config.BatchSize,
		"flush_interval", w.config.FlushInterval,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("buffered writer stopping, flushing remaining buffer")
			if err := w.flush(ctx, ackChan); err != nil {
				w.logger.Error("failed to flush on shutdown", "error", err)
			}
			return ctx.Err()

		case <-ticker.C:
			if err := w.flush(ctx, ackChan); err != nil {
				w.logger.Error("failed to flush on interval", "error", err)
			}

		case candidate, ok := <-in:
			if !ok {
				w.logger.Info("input channel closed, flushing remaining buffer")
				return w.flush(ctx, ackChan)
			}

			w.mu.Lock()
			w.buffer = append(w.buffer, candidate)
			shouldFlush := len(w.buffer) >= w.config.BatchSize
			w.mu.Unlock()

			if shouldFlush {
				if err := w.flush(ctx, ackChan); err != nil {
					return err
				}
			}
		}
	}
}

// flush hands the buffered candidates to the flusher and acknowledges them.
func (w *Writer) flush(ctx context.Context, ackChan chan<- string) error {
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return nil
	}
	toFlush := make([]*api.Candidate, len(w.buffer))
	copy(toFlush, w.buffer)
	w.buffer = w.buffer[:0]
	w.mu.Unlock()

	w.logger.Debug("flushing buffer", "count", len(toFlush))

	if err := w.flusher(toFlush); err != nil {
		return err
	}

	if ackChan != nil {
		for _, candidate := range toFlush {
			if candidate.MessageID == "" {
				continue
			}
			select {
			case ackChan <- candidate.MessageID:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	w.logger.Info("flushed candidates", "count", len(toFlush))
	return nil
}

// BufferLen returns the current number of buffered candidates.
func (w *Writer) BufferLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buffer)
}
