package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/ledger"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/sheets"
)

// app holds everything a command needs. Built once in the root command's
// PersistentPreRunE and torn down after the command finishes.
type app struct {
	logger   *log.Logger
	cfg      *config.Config
	store    *ledger.Store
	reports  *services.ReportService
	importer *services.ImportService
	exporter *services.ExportService

	amqpClient *amqp.Client
	closeRepo  func() error
}

func (a *app) setup(ctx context.Context) error {
	cli.LoadEnvFile()
	a.logger = cli.SetupLogger()
	a.cfg = cli.LoadAndValidateConfig(a.logger)

	repo, closeRepo, err := cli.OpenRepository(a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.closeRepo = closeRepo

	a.store, err = ledger.Open(ctx, repo, a.logger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	// Change events are best effort: a dead broker must never block the CLI.
	if a.cfg.AMQPURL != "" {
		client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
		if err != nil {
			a.logger.Warn("AMQP unavailable, change events disabled", log.FieldError, err)
		} else {
			a.amqpClient = client
			a.store.Subscribe(func(e ledger.Event) {
				if err := client.PublishLedgerEvent(ctx, e.Op, e.ID, e.Count, a.store.Revision()); err != nil {
					a.logger.Warn("failed to publish change event",
						log.FieldOperation, e.Op,
						log.FieldError, err)
				}
			})
		}
	}

	var sheetsClient services.SheetsExporter
	if a.cfg.GoogleSpreadsheetID != "" {
		client, err := sheets.NewFromEnv(ctx, a.logger)
		if err != nil {
			a.logger.Warn("Google Sheets unavailable", log.FieldError, err)
		} else {
			sheetsClient = client
		}
	}

	a.reports = services.NewReportService(a.store, a.logger)
	a.importer = services.NewImportService(a.store, a.logger)
	a.exporter = services.NewExportService(a.store, sheetsClient, a.logger)
	return nil
}

func (a *app) teardown() {
	if a.amqpClient != nil {
		a.amqpClient.Close()
	}
	if a.closeRepo != nil {
		if err := a.closeRepo(); err != nil {
			a.logger.Error("failed to close repository", log.FieldError, err)
		}
	}
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tally",
		Short: "tally - a personal finance ledger",
		Long: `tally tracks income and expenses in a local ledger with monthly
summaries, per-category budgets and CSV import/export.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newEditCmd(a),
		newClearCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
		newBudgetCmd(a),
		newSettingsCmd(a),
		newCategoriesCmd(a),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
