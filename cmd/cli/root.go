package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-social/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-social/pkg/config"
	"github.com/wadjakorntonsri/go-social/pkg/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "social",
	Short: "Operator tooling for the go-social store",
	Long: `social works directly against the database named by DATABASE_URL
(or --db): export a raw dump, print counts, or seed fixtures through the
same services the HTTP API uses.`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("db", "", "database URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

// openStore resolves configuration and flags into an open repository
func openStore(cmd *cobra.Command) (*sqlite.SQLiteRepository, *config.Config, error) {
	cfg := config.Load()
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DatabaseURL = db
	}
	level := "warn"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger.Init(level, cfg.LogSink)

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to db: %w", err)
	}
	return repo, cfg, nil
}
