package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical layouts used when date cells are rewritten.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = time.RFC3339
)

// Formats accepted by ParseTime, tried in order.
var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseTime parses a date or timestamp cell in any of the common layouts.
// Returns nil if the cell is missing, empty, or unparseable.
func ParseTime(v *string) *time.Time {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// FormatTime renders t in the canonical cell layout: a bare date when t is
// midnight UTC, RFC3339 otherwise.
func FormatTime(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(TimestampLayout)
}

// ParseFloat parses a numeric cell strictly. NaN and infinities are rejected.
func ParseFloat(v *string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseAmount parses a money cell after stripping thousands separators,
// e.g. "1,000.00" -> 1000.
func ParseAmount(v *string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	s := strings.ReplaceAll(*v, ",", "")
	return ParseFloat(&s)
}
