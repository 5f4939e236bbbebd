package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transitdepot/rosterd/config"
	coreabsence "github.com/transitdepot/rosterd/core/absence"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/infra/absence"
)

var (
	absenceDriver string
	absenceDay    int
	absenceShift  int
	absenceReason string
)

var absenceCmd = &cobra.Command{
	Use:   "absence",
	Short: "Manage manual absence entries",
}

var absenceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Mark a driver absent for a day and shift",
	RunE:  addAbsence,
}

func init() {
	absenceAddCmd.Flags().StringVar(&absenceDriver, "driver", "", "driver personnel number")
	absenceAddCmd.Flags().IntVar(&absenceDay, "day", 0, "day number")
	absenceAddCmd.Flags().IntVar(&absenceShift, "shift", 1, "shift class (1 or 2)")
	absenceAddCmd.Flags().StringVar(&absenceReason, "reason", string(coreabsence.ReasonSick), "vacation, sick or unexcused")
	_ = absenceAddCmd.MarkFlagRequired("driver")
	_ = absenceAddCmd.MarkFlagRequired("day")
	absenceCmd.AddCommand(absenceAddCmd)
	rootCmd.AddCommand(absenceCmd)
}

func addAbsence(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	entry := coreabsence.Entry{
		Driver: model.DriverID(absenceDriver),
		Class:  model.ShiftClass(absenceShift),
		Day:    absenceDay,
		Reason: coreabsence.Reason(absenceReason),
	}
	switch cfg.Absences.Backend {
	case "json":
		return absence.NewJSONProvider(cfg.Absences.Path).Add(entry)
	case "sqlite":
		p, err := absence.NewSQLiteProvider(cfg.Absences.Path)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()
		return p.Add(context.Background(), entry)
	default:
		return fmt.Errorf("absences backend %q cannot accept entries", cfg.Absences.Backend)
	}
}
