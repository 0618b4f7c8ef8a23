// Package normalize converts the heterogeneous duration, count, and date
// representations produced by the metadata API and the watch-page extractor
// into canonical numeric and temporal forms.
//
// All functions are pure and fail closed: malformed input yields the
// documented default instead of an error.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDurationRegex matches ISO-8601 durations as returned by the Data API
// contentDetails.duration field, e.g. "PT1H2M3S", "PT45S", "PT5M".
var isoDurationRegex = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO-8601 duration token into seconds.
// Absent components count as zero. Input that does not match returns 0.
func ParseISODuration(text string) int {
	matches := isoDurationRegex.FindStringSubmatch(text)
	if len(matches) == 0 {
		return 0
	}

	var total int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			total += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			total += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			total += seconds
		}
	}
	return total
}

// ParseClockDuration converts colon-separated clock strings ("SS", "MM:SS",
// or "HH:MM:SS") into seconds. Unrecognized shapes return 0.
func ParseClockDuration(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")

	var hours, minutes, seconds int
	var err error

	switch len(parts) {
	case 1:
		if seconds, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if seconds, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
		if seconds, err = strconv.Atoi(parts[2]); err != nil {
			return 0
		}
	default:
		return 0
	}

	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0
	}
	return hours*3600 + minutes*60 + seconds
}

// FormatDuration renders seconds as "H:MM:SS", or "M:SS" when the hour
// component is zero. Minutes and seconds are always zero-padded to two
// digits. Negative input is treated as zero.
//
// FormatDuration is the inverse of ParseClockDuration:
// ParseClockDuration(FormatDuration(s)) == s for all non-negative s.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// countSuffixes maps abbreviation suffixes to multipliers.
var countSuffixes = map[byte]float64{
	'k': 1e3,
	'm': 1e6,
	'b': 1e9,
}

// ParseAbbreviatedCount parses human-abbreviated counts such as "1.2K",
// "4.5M", or "3B" into integers, rounding to the nearest whole number.
// Plain digit strings parse as-is; comma separators are stripped.
// Unparseable input returns 0.
func ParseAbbreviatedCount(text string) int64 {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimSuffix(s, " views")
	s = strings.TrimSuffix(s, " view")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	if mult, ok := countSuffixes[s[len(s)-1]]; ok {
		mantissa, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil || mantissa < 0 {
			return 0
		}
		return int64(math.Round(mantissa * mult))
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// directDateLayouts are tried in order before the localized phrase form.
var directDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// localizedMonths is the 12-entry lookup for the "<day> de <mon>. de <year>"
// phrase form. Keys are the three-letter month abbreviations, lowercase.
var localizedMonths = map[string]time.Month{
	"ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December,
}

// localizedDateRegex matches phrases like "25 de oct. de 2009".
// The trailing period after the month is optional.
var localizedDateRegex = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([a-záéó]{3})\.?\s+de\s+(\d{4})`)

// ParseFlexibleDate accepts either a directly parseable date string or a
// localized "<day> de <mon>. de <year>" phrase. Unparseable input returns
// the current UTC time, never an error.
func ParseFlexibleDate(text string) time.Time {
	s := strings.TrimSpace(text)

	for _, layout := range directDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	if m := localizedDateRegex.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := localizedMonths[strings.ToLower(m[2])]; ok && day >= 1 && day <= 31 {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Now().UTC()
}
