package models

import (
	"bytes"
	"encoding/json"
)

// DayHours is one weekday entry as stored, wall-clock "HH:MM" strings.
type DayHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours is keyed by weekday index "0" (Sunday) to "6" (Saturday).
// A key mapped to nil means closed that day; a missing key means the
// owner has no opinion for that day.
type WorkingHours map[string]*DayHours

// UnmarshalJSON never fails on well-formed JSON, so a bad blob cannot make
// the owning row unreadable. A value that is not an object decodes to nil
// (no schedule). An entry that is not a {start, end} object decodes to an
// empty DayHours, which schedule parsing reports and treats as closed.
func (w *WorkingHours) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if !json.Valid(data) {
			return err
		}
		*w = nil
		return nil
	}

	out := make(WorkingHours, len(raw))
	for day, entry := range raw {
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			out[day] = nil
			continue
		}

		var hours DayHours
		if err := json.Unmarshal(entry, &hours); err != nil {
			hours = DayHours{}
		}
		out[day] = &hours
	}

	*w = out
	return nil
}
