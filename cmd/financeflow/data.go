package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/financeflow/financeflow/pkg/config"
	"github.com/financeflow/financeflow/pkg/store"
	"github.com/financeflow/financeflow/pkg/store/jsonfile"
)

// withJSONStore resolves the configured store and requires the jsonfile
// backend; export bundles are a feature of the local data file.
func withJSONStore(logger *slog.Logger, configPath string, fn func(ctx context.Context, js *jsonfile.Store) error) error {
	return withStore(logger, configPath, func(ctx context.Context, cfg *config.Config, st store.Store) error {
		js, ok := st.(*jsonfile.Store)
		if !ok {
			return fmt.Errorf("this command requires the jsonfile backend (configured: %s)", cfg.Store)
		}
		return fn(ctx, js)
	})
}

// runExport writes the full data set to a backup bundle file.
func runExport(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: financeflow export <bundle-file>")
	}
	outPath := fs.Arg(0)

	return withJSONStore(logger, *configPath, func(_ context.Context, js *jsonfile.Store) error {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating bundle file: %w", err)
		}
		if err := js.Export(f); err != nil {
			f.Close()
			return fmt.Errorf("exporting data: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing bundle file: %w", err)
		}
		fmt.Printf("Exported to %s\n", outPath)
		return nil
	})
}

// runRestore loads a backup bundle into the store. By default records merge
// by ID with the bundle winning; -replace discards the current data first.
func runRestore(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	replace := fs.Bool("replace", false, "discard current data instead of merging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: financeflow restore [-replace] <bundle-file>")
	}
	inPath := fs.Arg(0)

	return withJSONStore(logger, *configPath, func(ctx context.Context, js *jsonfile.Store) error {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("opening bundle file: %w", err)
		}
		defer f.Close()

		if err := js.Import(f, *replace); err != nil {
			return fmt.Errorf("restoring data: %w", err)
		}

		txns, err := js.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
		billList, err := js.ListBills(ctx)
		if err != nil {
			return fmt.Errorf("listing bills: %w", err)
		}
		fmt.Printf("Restored from %s (%d transactions, %d bills)\n", inPath, len(txns), len(billList))
		return nil
	})
}

// runClear deletes every record. Requires -yes.
func runClear(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	yes := fs.Bool("yes", false, "confirm deleting all data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("clear deletes every transaction and bill; re-run with -yes to confirm")
	}

	return withJSONStore(logger, *configPath, func(_ context.Context, js *jsonfile.Store) error {
		if err := js.ClearAll(); err != nil {
			return fmt.Errorf("clearing data: %w", err)
		}
		fmt.Println("All data cleared")
		return nil
	})
}
