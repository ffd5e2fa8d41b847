package main

import (
	"os"

	"github.com/helixml/salary/internal/log"
	"github.com/helixml/salary/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants look up and estimate salaries. Configuration is
loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel()).Slog()
	client, err := openClient(cfg, logger, "starting MCP server")
	if err != nil {
		return err
	}
	defer closeClient(client, logger)

	if !client.Estimator.Trained() {
		logger.Warn("no trained model loaded, predict_salary will fail until one is trained")
	}

	return mcp.NewServer(client.Lookup, client.Estimator, version, logger).ServeStdio()
}
