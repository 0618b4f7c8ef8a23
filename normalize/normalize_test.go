package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"hours minutes seconds", "PT1H2M3S", 3723},
		{"seconds only", "PT45S", 45},
		{"minutes only", "PT5M", 300},
		{"hours only", "PT2H", 7200},
		{"empty", "", 0},
		{"garbage", "not a duration", 0},
		{"bare prefix", "PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseISODuration(tt.in))
		})
	}
}

func TestParseClockDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"minutes seconds", "3:33", 213},
		{"hours minutes seconds", "1:02:03", 3723},
		{"bare seconds", "45", 45},
		{"zero", "0:00", 0},
		{"padded", " 10:30 ", 630},
		{"empty", "", 0},
		{"too many fields", "1:2:3:4", 0},
		{"non numeric", "a:bc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClockDuration(tt.in))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"scenario value", 213, "3:33"},
		{"with hours", 3723, "1:02:03"},
		{"zero", 0, "0:00"},
		{"under a minute", 45, "0:45"},
		{"exact hour", 3600, "1:00:00"},
		{"negative clamps", -5, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// ParseClockDuration(FormatDuration(s)) == s for all non-negative s.
	for _, s := range []int{0, 1, 59, 60, 61, 213, 3599, 3600, 3723, 86399, 360000} {
		assert.Equal(t, s, ParseClockDuration(FormatDuration(s)), "seconds=%d", s)
	}
}

func TestParseAbbreviatedCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"thousands", "1.2K", 1200},
		{"millions", "4.5M", 4500000},
		{"billions", "3B", 3000000000},
		{"lowercase", "1.2k", 1200},
		{"plain digits", "42", 42},
		{"with commas", "1,234,567", 1234567},
		{"views suffix", "1.2M views", 1200000},
		{"rounding", "1.23K", 1230},
		{"empty", "", 0},
		{"garbage", "lots", 0},
		{"negative", "-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAbbreviatedCount(tt.in))
		})
	}
}

func TestParseFlexibleDate(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		got := ParseFlexibleDate("2009-10-25T00:00:00Z")
		assert.Equal(t, time.Date(2009, time.October, 25, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("date only", func(t *testing.T) {
		got := ParseFlexibleDate("2009-10-25")
		assert.Equal(t, 2009, got.Year())
		assert.Equal(t, time.October, got.Month())
	})

	t.Run("localized phrase", func(t *testing.T) {
		got := ParseFlexibleDate("25 de oct. de 2009")
		assert.Equal(t, time.Date(2009, time.October, 25, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("localized without period", func(t *testing.T) {
		got := ParseFlexibleDate("3 de ene de 2021")
		assert.Equal(t, time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("localized uppercase", func(t *testing.T) {
		got := ParseFlexibleDate("14 de AGO. de 2015")
		assert.Equal(t, time.Date(2015, time.August, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("unparseable falls back to now", func(t *testing.T) {
		before := time.Now().UTC()
		got := ParseFlexibleDate("sometime last century")
		after := time.Now().UTC()
		require.False(t, got.Before(before))
		require.False(t, got.After(after))
	})
}
