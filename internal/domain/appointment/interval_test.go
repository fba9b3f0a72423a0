package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestTimeRangeOverlaps(t *testing.T) {
	a := TimeRange{Start: at(13, 0), End: at(14, 0)}
	b := TimeRange{Start: at(14, 0), End: at(15, 0)}
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	c := TimeRange{Start: at(13, 0), End: at(14, 31)}
	d := TimeRange{Start: at(14, 30), End: at(15, 0)}
	assert.True(t, c.Overlaps(d))
	assert.True(t, d.Overlaps(c))

	outer := TimeRange{Start: at(9, 0), End: at(17, 0)}
	inner := TimeRange{Start: at(10, 0), End: at(11, 0)}
	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestTimeRangeContains(t *testing.T) {
	wh := TimeRange{Start: at(9, 0), End: at(17, 0)}
	assert.True(t, wh.Contains(TimeRange{Start: at(9, 0), End: at(17, 0)}))
	assert.True(t, wh.Contains(TimeRange{Start: at(16, 30), End: at(17, 0)}))
	assert.False(t, wh.Contains(TimeRange{Start: at(16, 45), End: at(17, 15)}))
	assert.False(t, wh.Contains(TimeRange{Start: at(8, 45), End: at(9, 15)}))

	// empty and inverted ranges are never inside working hours
	assert.False(t, wh.Contains(TimeRange{Start: at(10, 0), End: at(10, 0)}))
	assert.False(t, wh.Contains(TimeRange{Start: at(10, 0), End: at(9, 30)}))
	assert.False(t, TimeRange{Start: at(10, 0), End: at(9, 30)}.Valid())
}

func TestBusyRangesSkipsCancelled(t *testing.T) {
	aps := []models.Appointment{
		{StartTime: at(9, 0), EndTime: at(9, 30), Status: string(StatusCancelled)},
		{StartTime: at(10, 0), EndTime: at(10, 30), Status: string(StatusPending)},
	}
	blocks := []models.ScheduleBlock{
		{StartTime: at(12, 0), EndTime: at(13, 0), Reason: "lunch"},
	}

	busy := BusyRanges(aps, blocks)
	assert.Equal(t, []TimeRange{
		{Start: at(10, 0), End: at(10, 30)},
		{Start: at(12, 0), End: at(13, 0)},
	}, busy)

	// The lunch block ends at 13:00, so 13:00 is free.
	assert.False(t, ConflictsWithAny(
		TimeRange{Start: at(13, 0), End: at(13, 30)},
		busy,
	))
	assert.True(t, ConflictsWithAny(
		TimeRange{Start: at(12, 45), End: at(13, 15)},
		busy,
	))
}
