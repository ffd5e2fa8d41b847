package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/helixml/salary/internal/log"
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	var (
		envFile  string
		dataFile string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the salary model from a dataset",
		Long: `Train the random forest from a CSV file or a ZIP archive holding one CSV.

The dataset needs Title, FullDescription, LocationNormalized and
SalaryNormalized columns. The fitted model replaces the one at MODEL_PATH
and is picked up by the server on its next start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, envFile, dataFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "Dataset to train on")
	_ = cmd.MarkFlagRequired("data-file")

	return cmd
}

func runTrain(cmd *cobra.Command, envFile, dataFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg).Slog()
	client, err := openClient(cfg, logger, "training salary model")
	if err != nil {
		return err
	}
	defer closeClient(client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := client.Estimator.Train(ctx, dataFile)
	if err != nil {
		return err
	}

	m := run.Metrics()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Model trained successfully (run %s)\n", run.ID())
	_, _ = fmt.Fprintf(out, "  rows:  %d train / %d test\n", run.TrainRows(), run.TestRows())
	_, _ = fmt.Fprintf(out, "  mse:   %.2f\n  rmse:  %.2f\n  r2:    %.4f\n", m.MSE, m.RMSE, m.R2)
	return nil
}
