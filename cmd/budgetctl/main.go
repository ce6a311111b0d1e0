// Command budgetctl prints budget reports and savings forecasts straight from
// the database, without going through the HTTP API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"budgetwise/internal/config"
	"budgetwise/internal/database"
	"budgetwise/internal/logger"
	"budgetwise/internal/services"
)

// app carries what every subcommand needs once the database is open.
type app struct {
	userID  string
	cfg     *config.Config
	manager *database.Manager
	reports services.ReportServicer
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Budget reports and savings forecasts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.userID, "user", "u", "", "User whose records are read")

	rootCmd.AddCommand(
		newReportCmd(a),
		newForecastCmd(a),
		newGoalCmd(a),
		newSavingsCmd(a),
		newSyncRatesCmd(a),
	)
	return rootCmd
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return err
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.manager = manager
	a.reports = services.NewReportService(services.NewRecordStore(manager.DB()), services.ReportOptions{
		TrailingWindow:    cfg.ForecastWindow,
		MaxForecastMonths: cfg.ForecastMaxMonths,
	})
	return nil
}

func (a *app) requireUser() error {
	if a.userID == "" {
		return errors.New("--user is required")
	}
	return nil
}

func (a *app) close() error {
	if a.manager == nil {
		return nil
	}
	return a.manager.Close()
}
