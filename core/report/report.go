// Package report builds the cross-day utilization summary produced at the end
// of the scheduling horizon: per driver and day, hours worked and hours rested
// until the next recorded shift.
package report

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/transitdepot/rosterd/core/history"
	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/core/plan"
	"github.com/transitdepot/rosterd/core/shifttime"
)

// Cell values for days without a usable rest figure.
const (
	CellDayOff  = "day off"
	RestFull    = "full rest"
	RestUnknown = "unknown"
	RestInvalid = "n/a"
)

// Row is one driver's horizon line.
type Row struct {
	Driver     model.DriverID `json:"driver"`
	Cells      []string       `json:"cells"`
	DaysWorked int            `json:"days_worked"`
	TotalHours float64        `json:"total_hours"`
}

// Summary aggregates utilization across all drivers.
type Summary struct {
	Drivers          int     `json:"drivers"`
	DriversAssigned  int     `json:"drivers_assigned"`
	MeanShiftHours   float64 `json:"mean_shift_hours"`
	StdDevShiftHours float64 `json:"stddev_shift_hours"`
	TotalHours       float64 `json:"total_hours"`
}

// Report is the cross-day utilization summary.
type Report struct {
	Days    int     `json:"days"`
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Build assembles the report for days 1..days from the persisted history.
// drivers fixes the row order; cells read "day off" when the driver has no
// record, otherwise "worked H h | rested R h" with the rest figure replaced
// by "full rest" when the driver does not appear the next day and "unknown"
// on the final day of the horizon.
func Build(ctx context.Context, store history.Store, cal plan.Calendar, days int, drivers []model.DriverID) (*Report, error) {
	byDay, err := plan.HistoryByDay(ctx, store, days)
	if err != nil {
		return nil, err
	}

	rep := &Report{Days: days, Rows: make([]Row, 0, len(drivers))}
	var shiftHours []float64
	for _, drv := range drivers {
		row := Row{Driver: drv, Cells: make([]string, 0, days)}
		for day := 1; day <= days; day++ {
			rec, worked := byDay[day][drv]
			if !worked {
				row.Cells = append(row.Cells, CellDayOff)
				continue
			}
			row.DaysWorked++
			row.TotalHours += rec.DurationHours
			shiftHours = append(shiftHours, rec.DurationHours)
			row.Cells = append(row.Cells, fmt.Sprintf("worked %.2f h | rested %s", rec.DurationHours, restCell(rec, byDay, cal, day, days, drv)))
		}
		row.TotalHours = shifttime.Round2(row.TotalHours)
		if row.DaysWorked > 0 {
			rep.Summary.DriversAssigned++
		}
		rep.Summary.TotalHours += row.TotalHours
		rep.Rows = append(rep.Rows, row)
	}

	rep.Summary.Drivers = len(drivers)
	rep.Summary.TotalHours = shifttime.Round2(rep.Summary.TotalHours)
	if len(shiftHours) > 0 {
		rep.Summary.MeanShiftHours = shifttime.Round2(stat.Mean(shiftHours, nil))
	}
	if len(shiftHours) > 1 {
		rep.Summary.StdDevShiftHours = shifttime.Round2(stat.StdDev(shiftHours, nil))
	}
	return rep, nil
}

func restCell(rec model.HistoryRecord, byDay map[int]model.DayHistory, cal plan.Calendar, day, days int, drv model.DriverID) string {
	next, ok := byDay[day+1][drv]
	if ok {
		rest, err := shifttime.RestBetween(rec, cal.Date(day), next.Start)
		if err != nil {
			return RestInvalid
		}
		return fmt.Sprintf("%.1f h", rest)
	}
	if day == days {
		return RestUnknown
	}
	return RestFull
}
