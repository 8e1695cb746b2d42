package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "catering",
	Short: "Catering API - locations, facilities, tags and employees over REST",
	Long: `Catering API serves a JSON REST interface for managing catering
locations, facilities, tags and employees.

Configuration is read from config.yaml (or --config) and overridden by
CATERING_* environment variables.

Examples:
  # Apply migrations and start the server
  catering serve --migrate

  # Hash the operator password for auth.password_hash
  catering hash-password

  # Follow entity change events
  catering events`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd, eventsCmd)
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
