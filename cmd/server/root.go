package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/h4ks-com/cashbook/internal/config"
	"github.com/h4ks-com/cashbook/internal/database"
	"github.com/h4ks-com/cashbook/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cashbook",
		Short: "Cashbook - personal income and expense tracker",
		Long: `Cashbook records income and expense transactions per user and reports
monthly totals and category breakdowns.

Run 'cashbook serve' to start the web server, 'cashbook adduser' to create an
account from the command line, or 'cashbook seed' to load sample data.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newAdduserCmd(),
		newSeedCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every command needs: configuration, a logger and a migrated
// database.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db, logger); err != nil {
		database.Close(db)
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}
