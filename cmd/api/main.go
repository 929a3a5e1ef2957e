package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tuka-portal/internal/config"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/internal/infrastructure/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tuka-portal",
	Short:         "Loan application portal API",
	SilenceUsage:  true,
	SilenceErrors: true,
	// no subcommand means serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// boot loads config, installs the logger and opens the database.
func boot() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logging.InitLogger(cfg.LogLevel)

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), logging.GormLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return cfg, gdb, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, gdb, err := boot()
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("migrations applied", "driver", cfg.DBDriver)
		return nil
	},
}
