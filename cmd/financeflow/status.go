package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/financeflow/financeflow/pkg/config"
)

// runStatus checks the configuration and storage backend.
func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("=== FinanceFlow Status ===")
	fmt.Println()

	allGood := true
	cfg := checkConfigFile(*configPath, &allGood)
	if cfg != nil {
		checkStorage(cfg, &allGood)
	}

	fmt.Println()
	if allGood {
		fmt.Println("Status: ✓ Ready")
		fmt.Println()
		fmt.Println("Run 'financeflow import <backup-file>' to import transactions.")
	} else {
		fmt.Println("Status: ✗ Configuration issues detected")
		fmt.Println()
		fmt.Println("Fix the issues above, then run 'financeflow status' again.")
	}
	return nil
}

func checkConfigFile(path string, allGood *bool) *config.Config {
	if path != "" {
		fmt.Printf("Config file (%s): ", path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("✗ Not found")
			*allGood = false
			return nil
		}
	} else {
		fmt.Print("Configuration (environment): ")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		*allGood = false
		return nil
	}
	fmt.Println("✓ OK")
	fmt.Printf("  Store backend: %s\n", cfg.Store)
	if cfg.Region != "" {
		fmt.Printf("  Region: %s (%s)\n", cfg.Region, currencyFor(cfg).Code)
	}
	return cfg
}

func checkStorage(cfg *config.Config, allGood *bool) {
	fmt.Printf("Storage (%s): ", cfg.Store)

	// Discard backend logs so the check output stays readable.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		*allGood = false
		return
	}
	defer st.Close()

	ctx := context.Background()
	txns, err := st.ListTransactions(ctx)
	if err != nil {
		fmt.Printf("✗ listing transactions: %v\n", err)
		*allGood = false
		return
	}
	billList, err := st.ListBills(ctx)
	if err != nil {
		fmt.Printf("✗ listing bills: %v\n", err)
		*allGood = false
		return
	}

	fmt.Printf("✓ Connected (%d transactions, %d bills)\n", len(txns), len(billList))
}
