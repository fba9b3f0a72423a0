package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

func nineToFive() *TimeRange {
	return &TimeRange{Start: at(9, 0), End: at(17, 0)}
}

func TestGenerateSlotsExhaustive(t *testing.T) {
	slots := FormatSlots(GenerateSlots(nineToFive(), 30*time.Minute, DefaultSlotStep, nil, nil))

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "17:00")
	assert.NotContains(t, slots, "16:45")
	// 09:00 through 16:30 at 15 minute steps.
	assert.Len(t, slots, 31)
}

func TestGenerateSlotsClosedDay(t *testing.T) {
	slots := GenerateSlots(nil, 30*time.Minute, DefaultSlotStep, nil, nil)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlotsDurationLongerThanDay(t *testing.T) {
	slots := GenerateSlots(nineToFive(), 9*time.Hour, DefaultSlotStep, nil, nil)
	assert.Empty(t, slots)
}

func TestGenerateSlotsSkipsCommitments(t *testing.T) {
	wh := &TimeRange{Start: at(9, 0), End: at(11, 0)}
	aps := []models.Appointment{
		{StartTime: at(9, 30), EndTime: at(10, 0), Status: string(StatusConfirmed)},
		{StartTime: at(10, 0), EndTime: at(10, 30), Status: string(StatusCancelled)},
	}
	blocks := []models.ScheduleBlock{
		{StartTime: at(10, 30), EndTime: at(10, 45)},
	}

	slots := FormatSlots(GenerateSlots(wh, 30*time.Minute, DefaultSlotStep, aps, blocks))

	// 09:00 ends where the confirmed appointment begins; 10:00 ends where the
	// block begins; the cancelled appointment does not count.
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	aps := []models.Appointment{
		{StartTime: at(12, 0), EndTime: at(13, 15), Status: string(StatusPending)},
	}
	first := GenerateSlots(nineToFive(), 45*time.Minute, DefaultSlotStep, aps, nil)
	second := GenerateSlots(nineToFive(), 45*time.Minute, DefaultSlotStep, aps, nil)
	assert.Equal(t, first, second)
}
