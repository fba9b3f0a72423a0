package appointment

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/BruksfildServices01/appointment-engine/internal/models"
)

// Weekday follows time.Weekday: 0 is Sunday, 6 is Saturday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

var reClock = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ClockTime is a wall-clock time of day, in minutes after midnight.
type ClockTime int

// ParseClock accepts strict 24-hour zero-padded "HH:MM" only.
func ParseClock(s string) (ClockTime, bool) {
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return ClockTime(h*60 + mm), true
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the clock time to the calendar day of date, in date's location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		int(c)/60, int(c)%60, 0, 0,
		date.Location(),
	)
}

// DayHours is a validated open interval; Open is always before Close.
type DayHours struct {
	Open  ClockTime
	Close ClockTime
}

// WeeklySchedule maps a weekday to its hours. A present key with a nil
// value is a closed day; an absent key defers to the next schedule in
// ResolveWorkingHours.
type WeeklySchedule map[Weekday]*DayHours

// ParseWeeklySchedule validates the stored working-hours blob once.
// Entries that are malformed (missing start or end, bad "HH:MM", start not
// before end) become closed days and are reported in invalid so callers
// can log them. Keys that are not weekdays are dropped.
func ParseWeeklySchedule(raw models.WorkingHours) (schedule WeeklySchedule, invalid []string) {
	if raw == nil {
		return nil, nil
	}

	schedule = make(WeeklySchedule, len(raw))
	for key, entry := range raw {
		n, err := strconv.Atoi(key)
		day := Weekday(n)
		if err != nil || !day.Valid() {
			invalid = append(invalid, key)
			continue
		}

		if entry == nil {
			schedule[day] = nil
			continue
		}

		open, okOpen := ParseClock(entry.Start)
		closing, okClose := ParseClock(entry.End)
		if !okOpen || !okClose || open >= closing {
			schedule[day] = nil
			invalid = append(invalid, key)
			continue
		}

		schedule[day] = &DayHours{Open: open, Close: closing}
	}

	return schedule, invalid
}

// ResolveWorkingHours returns the working interval on date's calendar day.
// Schedules are consulted in order and the first one that has an entry for
// the weekday decides; nil schedules are skipped. A nil result means the
// professional does not work that day.
func ResolveWorkingHours(date time.Time, schedules ...WeeklySchedule) *TimeRange {
	day := Weekday(date.Weekday())

	for _, s := range schedules {
		if s == nil {
			continue
		}
		hours, ok := s[day]
		if !ok {
			continue
		}
		if hours == nil {
			return nil
		}
		return &TimeRange{
			Start: hours.Open.On(date),
			End:   hours.Close.On(date),
		}
	}

	return nil
}
