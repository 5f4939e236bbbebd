package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitdepot/rosterd/core/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Days: 2,
		Rows: []report.Row{
			{Driver: "1001", Cells: []string{"worked 9.00 h | rested 16.0 h", "worked 9.00 h | rested unknown"}, DaysWorked: 2, TotalHours: 18},
			{Driver: "1002", Cells: []string{report.CellDayOff, report.CellDayOff}},
		},
		Summary: report.Summary{Drivers: 2, DriversAssigned: 1, MeanShiftHours: 9, TotalHours: 18},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Days)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, 18.0, got.Rows[0].TotalHours)
	assert.Equal(t, 1, got.Summary.DriversAssigned)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "driver,day_1,day_2,days_worked,total_hours", lines[0])
	assert.Contains(t, lines[1], "1001,")
	assert.Contains(t, lines[1], ",2,18.00")
	assert.Contains(t, lines[2], "day off,day off,0,0.00")
}
