package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/config"
	"github.com/financeflow/financeflow/pkg/reader/backup"
	csvwriter "github.com/financeflow/financeflow/pkg/writer/csv"
	storewriter "github.com/financeflow/financeflow/pkg/writer/store"
)

// runImport extracts transactions from an SMS backup file and persists them.
func runImport(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	csvPath := fs.String("csv", "", "write extracted transactions to this CSV file instead of the store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: financeflow import <backup-file>")
	}
	backupPath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Cancel on SIGINT/SIGTERM so a partial batch still flushes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	writer, closeStore, err := buildWriter(ctx, cfg, *csvPath, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reader := backup.New(backupPath, logger.With("component", "backup_reader"))

	candidates := make(chan *api.Candidate, 100)
	acks := make(chan string, 100)

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- writer.Write(ctx, candidates, acks)
	}()

	logger.Info("starting import", "file", backupPath)
	if err := reader.Read(ctx, candidates, acks); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("reading backup: %w", err)
	}

	if err := <-writerDone; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("writing transactions: %w", err)
	}

	logger.Info("import finished")
	return nil
}

// buildWriter picks the CSV writer when a path is given, the configured
// store otherwise.
func buildWriter(ctx context.Context, cfg *config.Config, csvPath string, logger *slog.Logger) (api.Writer, func(), error) {
	flushInterval := time.Duration(cfg.FlushInterval) * time.Second

	if csvPath != "" {
		w, err := csvwriter.New(csvwriter.Config{
			FilePath:      csvPath,
			BatchSize:     cfg.BatchSize,
			FlushInterval: flushInterval,
		}, logger.With("component", "csv_writer"))
		if err != nil {
			return nil, nil, fmt.Errorf("creating csv writer: %w", err)
		}
		return w, func() {}, nil
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	w := storewriter.New(st, storewriter.Config{
		BatchSize:     cfg.BatchSize,
		FlushInterval: flushInterval,
	}, logger.With("component", "store_writer"))
	return w, func() { st.Close() }, nil
}
