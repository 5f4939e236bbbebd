package roster

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitdepot/rosterd/core/model"
	"github.com/transitdepot/rosterd/core/plan"
	coreroster "github.com/transitdepot/rosterd/core/roster"
)

const timetableYAML = `route: 45
workday:
  - first: {start: "05:30", end: "14:10"}
    second: {start: "14:10", end: "23:00"}
  - first: {start: "06:00", end: "15:00"}
  - first: {start: "garbage", end: "15:00"}
    second: {start: "21:00", end: "05:30"}
weekend:
  - first: {start: "07:00", end: "16:00"}
`

const rosterYAML = `drivers:
  - id: "1001"
    days: {1: "1", 2: "2", 3: "off"}
  - id: "1002"
    days: {1: "1см", 2: "off", 3: "1"}
  - id: "1003"
    days: {1: "2", 2: "1"}
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScheduleFileSlots(t *testing.T) {
	cal := plan.NewCalendar(2025, time.March)
	s, err := NewScheduleFile(writeTemp(t, "timetable.yaml", timetableYAML), cal, nil)
	require.NoError(t, err)
	assert.Equal(t, 45, s.Route())

	// Day 3 is a Monday, so the workday variant applies.
	slots, err := s.Slots(3, model.ShiftFirst)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].Seq)
	assert.Equal(t, time.Date(2025, time.March, 3, 5, 30, 0, 0, time.UTC), slots[0].Start)
	assert.InDelta(t, 8.67, slots[0].DurationHours, 1e-9)
	assert.Equal(t, 2, slots[1].Seq)

	slots, err = s.Slots(3, model.ShiftSecond)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].Seq)
	assert.Equal(t, 3, slots[1].Seq)
	assert.True(t, slots[1].CrossesMidnight)
	assert.Equal(t, 4, slots[1].End.Day())

	_, err = s.Slots(3, model.ShiftClass(9))
	assert.Error(t, err)
}

func TestScheduleFileWeekendVariant(t *testing.T) {
	cal := plan.NewCalendar(2025, time.March)
	s, err := NewScheduleFile(writeTemp(t, "timetable.yaml", timetableYAML), cal, nil)
	require.NoError(t, err)

	// March 1st 2025 is a Saturday.
	slots, err := s.Slots(1, model.ShiftFirst)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2025, time.March, 1, 7, 0, 0, 0, time.UTC), slots[0].Start)

	slots, err = s.Slots(1, model.ShiftSecond)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestNewScheduleFileRejectsEmpty(t *testing.T) {
	cal := plan.NewCalendar(2025, time.March)
	_, err := NewScheduleFile(writeTemp(t, "timetable.yaml", "route: 45\n"), cal, nil)
	assert.Error(t, err)

	_, err = NewScheduleFile(filepath.Join(t.TempDir(), "missing.yaml"), cal, nil)
	assert.Error(t, err)
}

func TestRosterFile(t *testing.T) {
	r, err := NewRosterFile(writeTemp(t, "roster.yaml", rosterYAML))
	require.NoError(t, err)

	avail, err := r.Available(1, model.ShiftFirst)
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"1001", "1002"}, avail)

	avail, err = r.Available(1, model.ShiftSecond)
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"1003"}, avail)

	standby, err := r.Standby(2)
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"1002"}, standby)

	drivers, err := r.Drivers()
	require.NoError(t, err)
	assert.Equal(t, []model.DriverID{"1001", "1002", "1003"}, drivers)
}

func TestRosterFileMissingDayColumn(t *testing.T) {
	r, err := NewRosterFile(writeTemp(t, "roster.yaml", rosterYAML))
	require.NoError(t, err)

	_, err = r.Available(9, model.ShiftFirst)
	assert.ErrorIs(t, err, coreroster.ErrDayColumnMissing)
	_, err = r.Standby(9)
	assert.ErrorIs(t, err, coreroster.ErrDayColumnMissing)
}

func TestFileSlotWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileSlotWriter(dir, 45)
	require.NoError(t, err)

	a := model.Assignment{
		Driver:        "1001",
		Start:         time.Date(2025, time.March, 3, 5, 30, 0, 0, time.UTC),
		End:           time.Date(2025, time.March, 3, 14, 10, 0, 0, time.UTC),
		DurationHours: 8.67,
	}
	require.NoError(t, w.WriteUncovered(model.SlotRef{Row: 2, Class: model.ShiftFirst}, plan.NoReserveMarker))
	require.NoError(t, w.WriteOutcome(model.SlotRef{Row: 1, Class: model.ShiftFirst}, a))
	require.NoError(t, w.Flush(3))

	raw, err := os.ReadFile(filepath.Join(dir, "schedule_day_3.json"))
	require.NoError(t, err)

	var out struct {
		Route    int       `json:"route"`
		Day      int       `json:"day"`
		Outcomes []Outcome `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 45, out.Route)
	assert.Equal(t, 3, out.Day)
	require.Len(t, out.Outcomes, 2)
	assert.Equal(t, 1, out.Outcomes[0].Row)
	assert.Equal(t, model.DriverID("1001"), out.Outcomes[0].Driver)
	assert.Equal(t, "05:30", out.Outcomes[0].Start)
	assert.Equal(t, plan.NoReserveMarker, out.Outcomes[1].Marker)

	// A second flush starts from an empty buffer.
	require.NoError(t, w.Flush(4))
	raw, err = os.ReadFile(filepath.Join(dir, "schedule_day_4.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.Outcomes)
}

func TestFileSlotWriterFailedFlushDropsBuffer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewFileSlotWriter(dir, 45)
	require.NoError(t, err)

	require.NoError(t, w.WriteUncovered(model.SlotRef{Row: 1, Class: model.ShiftFirst}, plan.NoReserveMarker))
	require.NoError(t, os.RemoveAll(dir))
	require.Error(t, w.Flush(1))

	// Day 1's rows must not resurface in day 2's file.
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, w.WriteOutcome(model.SlotRef{Row: 1, Class: model.ShiftFirst}, model.Assignment{
		Driver: "1001",
		Start:  time.Date(2025, time.March, 2, 5, 30, 0, 0, time.UTC),
		End:    time.Date(2025, time.March, 2, 14, 10, 0, 0, time.UTC),
	}))
	require.NoError(t, w.Flush(2))

	raw, err := os.ReadFile(filepath.Join(dir, "schedule_day_2.json"))
	require.NoError(t, err)
	var out struct {
		Outcomes []Outcome `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Outcomes, 1)
	assert.Empty(t, out.Outcomes[0].Marker)
	assert.Equal(t, model.DriverID("1001"), out.Outcomes[0].Driver)
}
