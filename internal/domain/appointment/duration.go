package appointment

import (
	"regexp"
	"strconv"
)

var (
	reMinutesOnly = regexp.MustCompile(`^(\d+)$`)
	reMinutes     = regexp.MustCompile(`^(\d+)min$`)
	reHours       = regexp.MustCompile(`^(\d+)h$`)
	reHoursMins   = regexp.MustCompile(`^(\d+)h(\d+)min$`)
	reISO         = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)
)

// MaxDurationMinutes caps a single service at one day.
const MaxDurationMinutes = 24 * 60

// ParseDurationMinutes understands "60", "30min", "2h", "1h30min", "PT30M"
// and "PT1H30M". ok is false for anything else, including "" and "PT", and
// for durations above MaxDurationMinutes.
func ParseDurationMinutes(s string) (minutes int, ok bool) {
	minutes, ok = parseDuration(s)
	if !ok || minutes > MaxDurationMinutes {
		return 0, false
	}
	return minutes, true
}

func parseDuration(s string) (int, bool) {
	if m := reMinutesOnly.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		return atoi(m[1])
	}
	if m := reHours.FindStringSubmatch(s); m != nil {
		return hoursAndMinutes(m[1], "")
	}
	if m := reHoursMins.FindStringSubmatch(s); m != nil {
		return hoursAndMinutes(m[1], m[2])
	}
	if m := reISO.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		return hoursAndMinutes(m[1], m[2])
	}
	return 0, false
}

func hoursAndMinutes(hs, ms string) (int, bool) {
	h, m := 0, 0
	ok := true
	if hs != "" {
		h, ok = atoi(hs)
	}
	if ok && ms != "" {
		m, ok = atoi(ms)
	}
	if !ok || h > MaxDurationMinutes/60 || m > MaxDurationMinutes {
		return 0, false
	}
	return h*60 + m, true
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
