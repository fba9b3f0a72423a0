package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	valid := map[string]int{
		"60":      60,
		"0":       0,
		"30min":   30,
		"2h":      120,
		"1h30min": 90,
		"PT30M":   30,
		"PT1H30M": 90,
		"PT2H15M": 135,
		"PT2H":    120,
		"24h":     1440,
		"1440":    1440,
		"PT24H":   1440,
	}
	for in, want := range valid {
		got, ok := ParseDurationMinutes(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	invalid := []string{
		"",
		"1 hour 30 mins",
		"PT",
		"30 min",
		"1h30",
		"-15",
		"1.5h",
		"pt30m",
		"99999999999999999999999",
		"3000000h",
		"1441",
		"25h",
		"PT25H",
		"23h61min",
		"PT9223372036854775807M",
	}
	for _, in := range invalid {
		_, ok := ParseDurationMinutes(in)
		assert.False(t, ok, in)
	}
}
