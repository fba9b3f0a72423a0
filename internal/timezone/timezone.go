package timezone

import (
	"sync/atomic"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var fallback atomic.Value

func init() {
	fallback.Store(DefaultTimezone)
}

// SetDefault replaces the zone used when a company has none or an invalid
// one. Invalid names are ignored.
func SetDefault(tz string) {
	if IsValid(tz) {
		fallback.Store(tz)
	}
}

func Default() string {
	return fallback.Load().(string)
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(Default())
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseDate reads "YYYY-MM-DD" as midnight in tz.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

// ParseDateTime reads "YYYY-MM-DD" plus "HH:MM" as a wall-clock time in tz.
func ParseDateTime(tz, date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, Location(tz))
}

// DayBounds returns [midnight, next midnight) of t's calendar day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
