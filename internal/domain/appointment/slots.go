package appointment

import (
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

const DefaultSlotStep = 15 * time.Minute

// SlotFormat is how slot start times are rendered.
const SlotFormat = "15:04"

// GenerateSlots lists the start times, ascending, at which a booking of
// the given duration fits inside workingHours without overlapping a live
// appointment or a schedule block. Candidates start at workingHours.Start
// and advance by step; the last one ends exactly at workingHours.End at
// the latest. A nil workingHours (closed day) yields an empty list.
func GenerateSlots(
	workingHours *TimeRange,
	duration time.Duration,
	step time.Duration,
	appointments []models.Appointment,
	blocks []models.ScheduleBlock,
) []time.Time {
	slots := []time.Time{}
	if workingHours == nil || duration <= 0 || step <= 0 {
		return slots
	}

	busy := BusyRanges(appointments, blocks)

	for cur := workingHours.Start; !cur.Add(duration).After(workingHours.End); cur = cur.Add(step) {
		candidate := TimeRange{Start: cur, End: cur.Add(duration)}
		if ConflictsWithAny(candidate, busy) {
			continue
		}
		slots = append(slots, cur)
	}

	return slots
}

// FormatSlots renders slot start times as "HH:MM".
func FormatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(SlotFormat))
	}
	return out
}
