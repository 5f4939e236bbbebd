package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftClass(t *testing.T) {
	assert.Equal(t, "first", ShiftFirst.String())
	assert.Equal(t, "second", ShiftSecond.String())
	assert.Equal(t, "class(3)", ShiftClass(3).String())
	assert.True(t, ShiftFirst.Valid())
	assert.True(t, ShiftSecond.Valid())
	assert.False(t, ShiftClass(0).Valid())
}

func TestMerge(t *testing.T) {
	prev := DayHistory{
		"d1": {End: "14:00", DurationHours: 8},
		"d2": {End: "22:00", DurationHours: 7},
	}
	today := DayHistory{
		"d2": {End: "23:30", DurationHours: 9},
		"d3": {End: "13:00", DurationHours: 6},
	}

	out := Merge(prev, today)
	assert.Len(t, out, 3)
	assert.Equal(t, "14:00", out["d1"].End)
	assert.Equal(t, "23:30", out["d2"].End)
	assert.Equal(t, "13:00", out["d3"].End)

	// Inputs stay untouched.
	assert.Equal(t, "22:00", prev["d2"].End)
}

func TestAssignmentRecord(t *testing.T) {
	a := Assignment{
		Driver:        "d1",
		Start:         time.Date(2025, time.March, 10, 5, 30, 0, 0, time.UTC),
		End:           time.Date(2025, time.March, 10, 14, 10, 0, 0, time.UTC),
		DurationHours: 8.67,
	}
	rec := a.Record(ShiftFirst)
	assert.Equal(t, "05:30", rec.Start)
	assert.Equal(t, "14:10", rec.End)
	assert.Equal(t, 8.67, rec.DurationHours)
	assert.False(t, rec.NextDay)
	assert.Equal(t, ShiftFirst, rec.Class)
	assert.Empty(t, rec.Note)
}

func TestAssignmentRecordCrossMidnight(t *testing.T) {
	a := Assignment{
		Driver:        "d1",
		Start:         time.Date(2025, time.March, 10, 21, 0, 0, 0, time.UTC),
		End:           time.Date(2025, time.March, 11, 5, 0, 0, 0, time.UTC),
		DurationHours: 8,
		ShortRest:     true,
	}
	rec := a.Record(ShiftSecond)
	assert.True(t, rec.NextDay)
	assert.Equal(t, "short_rest", rec.Note)
}

func TestSpanHours(t *testing.T) {
	s := ShiftSlot{
		Start: time.Date(2025, time.March, 10, 5, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC),
	}
	assert.InDelta(t, 9.5, s.SpanHours(), 1e-9)
}
