package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestParseClock(t *testing.T) {
	c, ok := ParseClock("09:05")
	require.True(t, ok)
	assert.Equal(t, ClockTime(9*60+5), c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"9:00", "9am", "24:00", "12:60", "", "12:00:00", " 12:00"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestResolveWorkingHours(t *testing.T) {
	s, invalid := ParseWeeklySchedule(models.WorkingHours{
		"1": {Start: "09:00", End: "17:30"},
	})
	require.Empty(t, invalid)

	wh := ResolveWorkingHours(monday, s)
	require.NotNil(t, wh)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), wh.Start)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC), wh.End)

	tuesdayOnly, _ := ParseWeeklySchedule(models.WorkingHours{
		"2": {Start: "09:00", End: "17:30"},
	})
	assert.Nil(t, ResolveWorkingHours(monday, tuesdayOnly))
}

func TestResolveWorkingHoursMalformed(t *testing.T) {
	s, invalid := ParseWeeklySchedule(models.WorkingHours{
		"1": {Start: "9am"},
		"2": {Start: "18:00", End: "09:00"},
		"3": {Start: "09:00", End: "09:00"},
		"x": {Start: "09:00", End: "10:00"},
		"7": {Start: "09:00", End: "10:00"},
	})
	assert.ElementsMatch(t, []string{"1", "2", "3", "x", "7"}, invalid)

	assert.Nil(t, ResolveWorkingHours(monday, s))
	assert.Nil(t, ResolveWorkingHours(monday.AddDate(0, 0, 1), s))
	assert.Nil(t, ResolveWorkingHours(monday.AddDate(0, 0, 2), s))
}

func TestResolveWorkingHoursFallback(t *testing.T) {
	company, _ := ParseWeeklySchedule(models.WorkingHours{
		"1": {Start: "08:00", End: "18:00"},
		"2": {Start: "08:00", End: "18:00"},
	})
	professional, _ := ParseWeeklySchedule(models.WorkingHours{
		"1": nil,
		"3": {Start: "10:00", End: "12:00"},
	})

	// Explicitly closed on Monday; the company hours do not apply.
	assert.Nil(t, ResolveWorkingHours(monday, professional, company))

	// No professional entry on Tuesday, so the company decides.
	wh := ResolveWorkingHours(monday.AddDate(0, 0, 1), professional, company)
	require.NotNil(t, wh)
	assert.Equal(t, 8, wh.Start.Hour())

	// Absent professional map falls back entirely.
	wh = ResolveWorkingHours(monday, nil, company)
	require.NotNil(t, wh)
	assert.Equal(t, 18, wh.End.Hour())

	assert.Nil(t, ResolveWorkingHours(monday))
}

func TestResolveWorkingHoursKeepsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	s, _ := ParseWeeklySchedule(models.WorkingHours{"1": {Start: "09:00", End: "17:00"}})

	wh := ResolveWorkingHours(time.Date(2026, 3, 2, 23, 0, 0, 0, loc), s)
	require.NotNil(t, wh)
	assert.Equal(t, loc, wh.Start.Location())
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), wh.Start.UTC())
}
