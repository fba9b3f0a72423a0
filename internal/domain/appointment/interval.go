package appointment

import (
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// TimeRange is the half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps is false for ranges that only touch at an endpoint.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Valid reports whether the range is non-empty: Start before End.
func (r TimeRange) Valid() bool {
	return r.Start.Before(r.End)
}

// Contains is false for an empty or inverted o.
func (r TimeRange) Contains(o TimeRange) bool {
	return o.Valid() && !o.Start.Before(r.Start) && !o.End.After(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// ConflictsWithAny reports whether candidate overlaps any of busy.
func ConflictsWithAny(candidate TimeRange, busy []TimeRange) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// BusyRanges merges appointments and schedule blocks into the intervals a
// new booking must avoid. Cancelled appointments free their slot.
func BusyRanges(appointments []models.Appointment, blocks []models.ScheduleBlock) []TimeRange {
	busy := make([]TimeRange, 0, len(appointments)+len(blocks))
	for _, ap := range appointments {
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		busy = append(busy, TimeRange{Start: ap.StartTime, End: ap.EndTime})
	}
	for _, b := range blocks {
		busy = append(busy, TimeRange{Start: b.StartTime, End: b.EndTime})
	}
	return busy
}
