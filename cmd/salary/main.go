// Package main is the entry point for the salary CLI.
//
//	@title						Salary API
//	@version					1.0
//	@description				Salary lookup and random-forest salary estimation for job postings
//	@host						localhost:8080
//	@BasePath					/
//	@securityDefinitions.apikey	APIKeyAuth
//	@in							header
//	@name						X-API-KEY
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/helixml/salary"
	"github.com/helixml/salary/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Salary estimation server",
		Long:  `Salary serves recorded salaries for known job postings and estimates salaries for new ones with a random forest trained on job descriptions.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(trainCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openClient creates the client shared by every subcommand.
func openClient(cfg config.AppConfig, slogger *slog.Logger, action string) (*salary.Client, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, action, attrs...)

	client, err := salary.New(
		salary.WithConfig(cfg),
		salary.WithLogger(slogger),
	)
	if err != nil {
		return nil, fmt.Errorf("create salary client: %w", err)
	}
	return client, nil
}

func closeClient(client *salary.Client, logger *slog.Logger) {
	if err := client.Close(); err != nil {
		logger.Error("failed to close salary client", slog.Any("error", err))
	}
}
