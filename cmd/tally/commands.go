package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

func currentMonth() string {
	return time.Now().Format("2006-01")
}

func newAddCmd(a *app) *cobra.Command {
	var (
		date   string
		txType string
		note   string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <category>",
		Short: "Add a transaction",
		Long: `Add a transaction to the ledger. The amount is a positive decimal in
major units, e.g. "12.50" or "12,50".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := core.ParseDecimalToCents(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			tx := core.Transaction{
				Amount:   cents,
				Date:     date,
				Category: args[1],
				Type:     core.TxType(txType),
				Note:     note,
			}
			if err := tx.Validate(); err != nil {
				return err
			}

			a.store.Add(cmd.Context(), tx)
			fmt.Printf("Added %s %s (%s) on %s\n",
				string(tx.Type), core.FormatMoney(tx.Amount, a.store.Settings().Currency), tx.Category, tx.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&txType, "type", "expense", `transaction type ("income" or "expense")`)
	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var filter core.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			txs := a.reports.List(filter)
			if len(txs) == 0 {
				fmt.Println("No transactions.")
				return nil
			}

			currency := a.store.Settings().Currency
			for _, t := range txs {
				sign := "-"
				if t.Type == core.Income {
					sign = "+"
				}
				fmt.Printf("%s  %s  %s%-12s  %-15s  %s  %s\n",
					t.ID, t.Date, sign, core.FormatMoney(t.Amount, currency), t.Category, t.Type, t.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Month, "month", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&filter.Type, "type", "all", `filter by type ("all", "income", "expense")`)
	cmd.Flags().StringVar(&filter.Category, "category", "all", "filter by exact category")
	cmd.Flags().StringVar(&filter.Query, "query", "", "free-text search in category and note")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a transaction by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Delete(cmd.Context(), args[0])
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		amount   string
		date     string
		category string
		txType   string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit fields of an existing transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var current *core.Transaction
			for _, t := range a.store.Transactions() {
				if t.ID == args[0] {
					tx := t
					current = &tx
					break
				}
			}
			if current == nil {
				return fmt.Errorf("no transaction with id %s", args[0])
			}

			if cmd.Flags().Changed("amount") {
				cents, err := core.ParseDecimalToCents(amount)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amount, err)
				}
				current.Amount = cents
			}
			if cmd.Flags().Changed("date") {
				current.Date = date
			}
			if cmd.Flags().Changed("category") {
				current.Category = category
			}
			if cmd.Flags().Changed("type") {
				current.Type = core.TxType(txType)
			}
			if cmd.Flags().Changed("note") {
				current.Note = note
			}

			a.store.Update(cmd.Context(), *current)
			fmt.Printf("Updated %s\n", current.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "new amount in major units")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&txType, "type", "", `new type ("income" or "expense")`)
	cmd.Flags().StringVar(&note, "note", "", "new note")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction (settings are kept)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the ledger without --yes")
			}
			a.store.ClearAll(cmd.Context())
			fmt.Println("Ledger cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV file with headers date, type, category,
amount_cents and an optional note. Rows identical to an existing
transaction (same date, type, category and amount) are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.importer.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(result.Summary())
			for _, re := range result.Invalid {
				fmt.Printf("  row %d: %s\n", re.Row, re.Message)
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		filter   core.Filter
		out      string
		toSheets bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if toSheets {
				n, err := a.exporter.ExportSheets(cmd.Context(), filter)
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d transaction(s) to Google Sheets.\n", n)
				return nil
			}

			if out != "" {
				if err := a.exporter.ExportFile(cmd.Context(), filter, out); err != nil {
					return err
				}
				fmt.Printf("Exported to %s\n", out)
				return nil
			}

			text, err := a.exporter.ExportCSV(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Month, "month", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&filter.Type, "type", "all", `filter by type ("all", "income", "expense")`)
	cmd.Flags().StringVar(&filter.Category, "category", "all", "filter by exact category")
	cmd.Flags().StringVar(&filter.Query, "query", "", "free-text search in category and note")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&toSheets, "sheets", false, "append to the configured Google Sheet")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals, category breakdown and daily series for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.reports.Month(month)
			currency := a.store.Settings().Currency

			fmt.Printf("Summary for %s\n", report.Month)
			fmt.Printf("  Income:  %s\n", core.FormatMoney(report.Totals.Income, currency))
			fmt.Printf("  Expense: %s\n", core.FormatMoney(report.Totals.Expense, currency))

			if len(report.ByCategory) > 0 {
				fmt.Println("\nSpending by category:")
				for _, c := range report.ByCategory {
					fmt.Printf("  %-15s %s\n", c.Category, core.FormatMoney(c.Total, currency))
				}
			}

			if len(report.Daily) > 0 {
				fmt.Println("\nDaily spending:")
				for _, d := range report.Daily {
					fmt.Printf("  day %s: %s\n", d.Day, core.FormatMoney(d.Total, currency))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", currentMonth(), "month to summarize (YYYY-MM)")
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage per-category monthly budgets",
	}

	var month string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show budget status for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.reports.Month(month)
			if len(report.Budget) == 0 {
				fmt.Println("No budgets set.")
				return nil
			}

			currency := a.store.Settings().Currency
			fmt.Printf("Budgets for %s\n", report.Month)
			for _, row := range report.Budget {
				marker := ""
				if row.Over {
					marker = "  OVER"
				}
				fmt.Printf("  %-15s %s / %s (%d%%)%s\n",
					row.Category,
					core.FormatMoney(row.Spent, currency),
					core.FormatMoney(row.Budget, currency),
					row.Percent,
					marker)
			}
			return nil
		},
	}
	showCmd.Flags().StringVar(&month, "month", currentMonth(), "month to evaluate (YYYY-MM)")

	setCmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set the monthly budget for a category",
		Long: `Set the monthly budget for a category. The amount is a decimal in major
units; zero removes the cap for the category.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cents int64
			if args[1] != "0" {
				var err error
				cents, err = core.ParseDecimalToCents(args[1])
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[1], err)
				}
			}
			a.store.SetBudget(cmd.Context(), args[0], cents)
			fmt.Printf("Budget for %s set to %s\n",
				args[0], core.FormatMoney(cents, a.store.Settings().Currency))
			return nil
		},
	}

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store.Settings()
			fmt.Printf("Currency:  %s (%s)\n", s.Currency, s.Currency.Symbol())
			fmt.Printf("Dark mode: %v\n", s.DarkMode)
			if len(s.Budgets) > 0 {
				fmt.Println("Budgets:")
				for category, cents := range s.Budgets {
					fmt.Printf("  %-15s %s\n", category, core.FormatMoney(cents, s.Currency))
				}
			}
			return nil
		},
	}

	var (
		currency string
		darkMode bool
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch core.SettingsPatch
			if cmd.Flags().Changed("currency") {
				c := core.Currency(currency)
				if !c.IsValid() {
					return fmt.Errorf("unsupported currency %q (USD, CAD, EUR, INR)", currency)
				}
				patch.Currency = &c
			}
			if cmd.Flags().Changed("dark-mode") {
				patch.DarkMode = &darkMode
			}
			if patch.Currency == nil && patch.DarkMode == nil {
				return fmt.Errorf("nothing to change")
			}

			a.store.SetSettings(cmd.Context(), patch)
			fmt.Println("Settings updated.")
			return nil
		},
	}
	setCmd.Flags().StringVar(&currency, "currency", "", "display currency (USD, CAD, EUR, INR)")
	setCmd.Flags().BoolVar(&darkMode, "dark-mode", false, "enable or disable dark mode")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range a.reports.Categories() {
				fmt.Println(c)
			}
			return nil
		},
	}
}
