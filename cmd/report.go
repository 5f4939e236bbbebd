package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/transitdepot/rosterd/app"
	"github.com/transitdepot/rosterd/config"
	"github.com/transitdepot/rosterd/pkg/export"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild the cross-day utilization report from stored history",
	RunE:  buildReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(reportCmd)
}

func buildReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	rep, err := svc.BuildReport(ctx)
	if err != nil {
		return err
	}
	switch reportFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), rep)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), rep)
	default:
		return fmt.Errorf("unsupported format: %s", reportFormat)
	}
}
