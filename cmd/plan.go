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
	"github.com/transitdepot/rosterd/core/model"
)

var planDay int

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a single day using the stored history of the day before",
	RunE:  planOneDay,
}

func init() {
	planCmd.Flags().IntVar(&planDay, "day", 1, "day number to plan")
	rootCmd.AddCommand(planCmd)
}

func planOneDay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if planDay < 1 || planDay > cfg.Horizon.Days {
		return fmt.Errorf("day %d outside horizon 1..%d", planDay, cfg.Horizon.Days)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.PlanDay(ctx, planDay)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "day %d: assigned 1st=%d 2nd=%d, unmet 1st=%d 2nd=%d\n",
		res.Day,
		res.Assigned[model.ShiftFirst], res.Assigned[model.ShiftSecond],
		res.Unmet[model.ShiftFirst], res.Unmet[model.ShiftSecond])
	return nil
}
