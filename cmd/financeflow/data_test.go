package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/store/jsonfile"
)

func TestDataCommands_ExportClearRestore(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.json")
	t.Setenv("FINANCEFLOW_STORE", "jsonfile")
	t.Setenv("FINANCEFLOW_DATA_FILE", dataPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	seed, err := jsonfile.New(dataPath, logger)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	txn := &api.Transaction{Kind: api.Expense, Amount: 250, Category: "food", Description: "Lunch", Source: api.SourceManual}
	if err := seed.AddTransaction(ctx, txn); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	bundlePath := filepath.Join(dir, "bundle.json")
	if err := runExport(logger, []string{bundlePath}); err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := os.ReadFile(bundlePath)
	if err != nil {
		t.Fatalf("reading bundle: %v", err)
	}
	var bundle jsonfile.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("parsing bundle: %v", err)
	}
	if bundle.Version != jsonfile.ExportVersion {
		t.Errorf("bundle version: got %q, want %q", bundle.Version, jsonfile.ExportVersion)
	}
	if len(bundle.Transactions) != 1 || bundle.Transactions[0].ID != txn.ID {
		t.Fatalf("bundle transactions: got %+v", bundle.Transactions)
	}

	if err := runClear(logger, nil); err == nil {
		t.Fatal("expected clear to refuse without -yes")
	}
	if err := runClear(logger, []string{"-yes"}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := jsonfile.New(dataPath, logger)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	if txns, _ := cleared.ListTransactions(ctx); len(txns) != 0 {
		t.Fatalf("expected empty store after clear, got %d records", len(txns))
	}

	if err := runRestore(logger, []string{bundlePath}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, err := jsonfile.New(dataPath, logger)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	txns, _ := restored.ListTransactions(ctx)
	if len(txns) != 1 || txns[0].ID != txn.ID || txns[0].Amount != 250 {
		t.Errorf("restored transactions: got %+v", txns)
	}
}

func TestDataCommands_RequireJSONFileBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FINANCEFLOW_STORE", "sqlite")
	t.Setenv("FINANCEFLOW_SQLITE_PATH", filepath.Join(dir, "data.db"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runExport(logger, []string{filepath.Join(dir, "bundle.json")}); err == nil {
		t.Fatal("expected export to reject the sqlite backend")
	}
}
