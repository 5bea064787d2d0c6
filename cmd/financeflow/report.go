package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/bills"
	"github.com/financeflow/financeflow/pkg/config"
	"github.com/financeflow/financeflow/pkg/currency"
	"github.com/financeflow/financeflow/pkg/stats"
)

// runReport prints the monthly summary, trend series, category breakdown,
// and recent activity.
func runReport(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	months := fs.Int("months", 6, "months of trend history")
	top := fs.Int("top", 6, "categories to show in the breakdown")
	recent := fs.Int("recent", 5, "recent transactions to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	txns, err := st.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cur := currencyFor(cfg)
	now := time.Now()
	summary := stats.Summarize(txns, now)

	fmt.Printf("=== %s ===\n\n", now.Format("January 2006"))
	fmt.Printf("Income:       %s (%+.1f%%)\n", currency.Format(summary.Income, cur), summary.IncomeGrowth)
	fmt.Printf("Expenses:     %s (%+.1f%%)\n", currency.Format(summary.Expenses, cur), summary.ExpenseGrowth)
	fmt.Printf("Net:          %s (%+.1f%%)\n", currency.Format(summary.Net, cur), summary.NetGrowth)
	fmt.Printf("Balance:      %s\n", currency.Format(summary.Balance, cur))
	fmt.Printf("Savings rate: %.1f%%\n", summary.SavingsRate)
	if summary.TopCategory != "" {
		fmt.Printf("Top category: %s\n", summary.TopCategory)
	}

	series := stats.MonthlySeries(txns, now, *months)
	fmt.Printf("\nLast %d months:\n", *months)
	for _, p := range series {
		fmt.Printf("  %s %d: income %s, expenses %s\n",
			p.Label, p.Year, currency.Format(p.Income, cur), currency.Format(p.Expenses, cur))
	}

	breakdown := stats.CategoryBreakdown(txns, now.Year(), now.Month(), *top)
	if len(breakdown) > 0 {
		fmt.Println("\nSpending by category:")
		for _, c := range breakdown {
			fmt.Printf("  %-16s %s\n", c.Name, currency.Format(c.Amount, cur))
		}
	}

	if latest := stats.Recent(txns, *recent); len(latest) > 0 {
		fmt.Println("\nRecent transactions:")
		for _, t := range latest {
			sign := "-"
			if t.Kind == api.Income {
				sign = "+"
			}
			fmt.Printf("  %s  %s%s  %s\n", t.Date, sign, currency.Format(t.Amount, cur), t.Description)
		}
	}

	billList, err := st.ListBills(ctx)
	if err != nil {
		return fmt.Errorf("listing bills: %w", err)
	}
	if n := bills.Notify(billList, txns, now); n != nil {
		fmt.Printf("\n[%s] %s: %s\n", n.Severity, n.Title, n.Message)
	}

	return nil
}
