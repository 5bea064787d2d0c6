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
	"github.com/financeflow/financeflow/pkg/store"
)

// runBills dispatches the bill management subcommands.
func runBills(logger *slog.Logger, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list":
		return listBills(logger, args)
	case "add":
		return addBill(logger, args)
	case "pay":
		return payBill(logger, args)
	case "delete":
		return deleteBill(logger, args)
	default:
		return fmt.Errorf("unknown bills subcommand %q (want list, add, pay, or delete)", sub)
	}
}

func withStore(logger *slog.Logger, configPath string, fn func(ctx context.Context, cfg *config.Config, st store.Store) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	return fn(ctx, cfg, st)
}

func listBills(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bills list", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withStore(logger, *configPath, func(ctx context.Context, cfg *config.Config, st store.Store) error {
		all, err := st.ListBills(ctx)
		if err != nil {
			return fmt.Errorf("listing bills: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No bills. Add one with 'financeflow bills add'.")
			return nil
		}

		cur := currencyFor(cfg)
		now := time.Now()
		for _, b := range all {
			status := "unpaid"
			switch {
			case b.Paid:
				status = "paid"
			case bills.IsOverdue(b, now):
				status = fmt.Sprintf("OVERDUE by %d days", -bills.DaysUntilDue(b, now))
			default:
				status = fmt.Sprintf("due in %d days", bills.DaysUntilDue(b, now))
			}
			recurring := ""
			if b.Recurring && b.Frequency != nil {
				recurring = fmt.Sprintf(" (%s)", *b.Frequency)
			}
			fmt.Printf("%-36s  %-20s %10s  due %s  %s%s\n",
				b.ID, b.Name, currency.Format(b.Amount, cur), b.DueDate, status, recurring)
		}

		txns, err := st.ListTransactions(ctx)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
		if n := bills.Notify(all, txns, now); n != nil {
			fmt.Printf("\n[%s] %s: %s\n", n.Severity, n.Title, n.Message)
		}
		return nil
	})
}

func addBill(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bills add", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	name := fs.String("name", "", "bill name")
	amount := fs.Float64("amount", 0, "amount due")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	category := fs.String("category", "utilities", "category ID")
	freq := fs.String("every", "", "recurring frequency: monthly, quarterly, or yearly")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *amount <= 0 || *due == "" {
		return fmt.Errorf("bills add requires -name, a positive -amount, and -due")
	}
	if _, err := time.Parse("2006-01-02", *due); err != nil {
		return fmt.Errorf("invalid -due date %q: want YYYY-MM-DD", *due)
	}

	bill := &api.Bill{
		Name:     *name,
		Amount:   *amount,
		DueDate:  *due,
		Category: *category,
	}
	if *freq != "" {
		f := api.Frequency(*freq)
		switch f {
		case api.Monthly, api.Quarterly, api.Yearly:
			bill.Recurring = true
			bill.Frequency = &f
		default:
			return fmt.Errorf("invalid -every %q: want monthly, quarterly, or yearly", *freq)
		}
	}

	return withStore(logger, *configPath, func(ctx context.Context, _ *config.Config, st store.Store) error {
		if err := st.AddBill(ctx, bill); err != nil {
			return fmt.Errorf("adding bill: %w", err)
		}
		fmt.Printf("Added bill %s (%s)\n", bill.Name, bill.ID)
		return nil
	})
}

// payBill marks a bill paid. Recurring bills get their next instance
// scheduled automatically.
func payBill(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bills pay", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: financeflow bills pay <bill-id>")
	}
	id := fs.Arg(0)

	return withStore(logger, *configPath, func(ctx context.Context, _ *config.Config, st store.Store) error {
		all, err := st.ListBills(ctx)
		if err != nil {
			return fmt.Errorf("listing bills: %w", err)
		}
		var target *api.Bill
		for _, b := range all {
			if b.ID == id {
				target = b
				break
			}
		}
		if target == nil {
			return store.ErrNotFound
		}

		if err := st.SetBillPaid(ctx, id, true); err != nil {
			return fmt.Errorf("marking bill paid: %w", err)
		}
		fmt.Printf("Marked %s as paid\n", target.Name)

		next, err := bills.Renew(target, time.Now())
		if err != nil {
			return fmt.Errorf("scheduling next instance: %w", err)
		}
		if next != nil {
			if err := st.AddBill(ctx, next); err != nil {
				return fmt.Errorf("adding next instance: %w", err)
			}
			fmt.Printf("Next %s due %s\n", next.Name, next.DueDate)
		}
		return nil
	})
}

func deleteBill(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bills delete", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: financeflow bills delete <bill-id>")
	}

	return withStore(logger, *configPath, func(ctx context.Context, _ *config.Config, st store.Store) error {
		if err := st.DeleteBill(ctx, fs.Arg(0)); err != nil {
			return fmt.Errorf("deleting bill: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	})
}
