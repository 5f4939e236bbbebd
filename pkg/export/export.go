// Package export writes the utilization report to JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/transitdepot/rosterd/core/report"
)

// WriteJSON writes the report to w in JSON format.
func WriteJSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes one row per driver: driver id, per-day cells, then the
// days-worked and total-hours aggregates.
func WriteCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, rep.Days+3)
	header = append(header, "driver")
	for day := 1; day <= rep.Days; day++ {
		header = append(header, fmt.Sprintf("day_%d", day))
	}
	header = append(header, "days_worked", "total_hours")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, string(row.Driver))
		rec = append(rec, row.Cells...)
		rec = append(rec,
			strconv.Itoa(row.DaysWorked),
			strconv.FormatFloat(row.TotalHours, 'f', 2, 64))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
