// Command financeflow is a personal finance tracker. It imports bank
// notification SMS backups, extracts transactions with deterministic rules,
// and reports on spending and upcoming bills.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/financeflow/financeflow/pkg/config"
	"github.com/financeflow/financeflow/pkg/currency"
	"github.com/financeflow/financeflow/pkg/logging"
	"github.com/financeflow/financeflow/pkg/store"
	"github.com/financeflow/financeflow/pkg/store/jsonfile"
	"github.com/financeflow/financeflow/pkg/store/postgres"
	"github.com/financeflow/financeflow/pkg/store/sqlite"
)

func main() {
	logger := logging.Setup(logging.DefaultConfig())

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(logger, os.Args[2:])
	case "report":
		err = runReport(logger, os.Args[2:])
	case "bills":
		err = runBills(logger, os.Args[2:])
	case "export":
		err = runExport(logger, os.Args[2:])
	case "restore":
		err = runRestore(logger, os.Args[2:])
	case "clear":
		err = runClear(logger, os.Args[2:])
	case "status":
		err = runStatus(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`financeflow - personal finance tracking

Usage:
  financeflow import <backup-file> [flags]   extract transactions from an SMS backup
  financeflow report [flags]                 show spending summary and trends
  financeflow bills <list|add|pay|delete>    manage bills and payment alerts
  financeflow export <bundle-file>           write all data to a backup bundle
  financeflow restore [-replace] <bundle>    load a backup bundle (merge by default)
  financeflow clear -yes                     delete every transaction and bill
  financeflow status [flags]                 check configuration and storage

Common flags:
  -config <path>   JSON config file (environment variables override it)

Environment:
  FINANCEFLOW_STORE        storage backend: jsonfile (default), sqlite, postgres
  FINANCEFLOW_DATA_FILE    jsonfile path (default data/financeflow.json)
  FINANCEFLOW_SQLITE_PATH  sqlite path (default data/financeflow.db)
  FINANCEFLOW_REGION       region code for the display currency
  LOG_LEVEL                DEBUG, INFO, WARN, ERROR`)
}

// openStore builds the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store {
	case "jsonfile":
		return jsonfile.New(cfg.DataFile, logger.With("component", "jsonfile_store"))
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath, logger.With("component", "sqlite_store"))
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			Host:        cfg.Postgres.Host,
			Port:        cfg.Postgres.Port,
			Database:    cfg.Postgres.Database,
			User:        cfg.Postgres.User,
			Password:    cfg.Postgres.Password,
			SSLMode:     cfg.Postgres.SSLMode,
			MaxPoolSize: cfg.Postgres.MaxConns,
		}, logger.With("component", "postgres_store"))
	default:
		return nil, fmt.Errorf("unknown store backend %q (want jsonfile, sqlite, or postgres)", cfg.Store)
	}
}

// currencyFor resolves the display currency from the configuration.
func currencyFor(cfg *config.Config) currency.Currency {
	if cfg.Region != "" {
		return currency.FromRegion(cfg.Region)
	}
	if cfg.Locale != "" {
		return currency.FromLocale(cfg.Locale)
	}
	return currency.Default
}
