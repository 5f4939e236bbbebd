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
	"github.com/transitdepot/rosterd/infra/logger"
	"github.com/transitdepot/rosterd/pkg/export"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "rosterd",
	Short: "Rest-constrained driver shift assignment",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	rep, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), rep)
}
