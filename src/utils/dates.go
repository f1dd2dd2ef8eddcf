package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const DATE_FORMAT = "2006-01-02"

// Layouts tried in order for string input. Values without a zone are read as UTC.
var dateLayouts = []string{
	DATE_FORMAT,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// NormalizeDate reduces a civil-date string or an epoch-seconds timestamp to
// YYYY-MM-DD. Numbers are interpreted as UTC and floored to the day. The
// second return value is false for empty or unparseable input and for days
// outside years 0000-9999, such as millisecond timestamps.
func NormalizeDate(v any) (string, bool) {
	switch d := v.(type) {
	case nil:
		return "", false
	case string:
		return normalizeDateString(d)
	case *string:
		if d == nil {
			return "", false
		}
		return normalizeDateString(*d)
	case json.Number:
		return normalizeDateString(d.String())
	case int:
		return fromEpoch(int64(d))
	case int32:
		return fromEpoch(int64(d))
	case int64:
		return fromEpoch(d)
	case uint:
		return fromEpoch(int64(d))
	case uint32:
		return fromEpoch(int64(d))
	case uint64:
		if d > math.MaxInt64 {
			return "", false
		}
		return fromEpoch(int64(d))
	case float64:
		return fromEpochFloat(d)
	case float32:
		return fromEpochFloat(float64(d))
	case time.Time:
		if d.IsZero() {
			return "", false
		}
		return formatDay(d)
	}
	return "", false
}

// MustNormalizeDate is NormalizeDate for trusted inputs such as test fixtures.
func MustNormalizeDate(v any) string {
	d, ok := NormalizeDate(v)
	if !ok {
		panic("invalid date: " + strconv.Quote(toString(v)))
	}
	return d
}

func normalizeDateString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if isNumeric(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return fromEpochFloat(f)
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return formatDay(t)
		}
	}
	return "", false
}

// formatDay rejects days outside years 0000-9999, which have no YYYY-MM-DD form.
func formatDay(t time.Time) (string, bool) {
	t = t.UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return "", false
	}
	return t.Format(DATE_FORMAT), true
}

func fromEpoch(sec int64) (string, bool) {
	return formatDay(time.Unix(sec, 0))
}

func fromEpochFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return "", false
	}
	return fromEpoch(int64(math.Floor(f)))
}

func isNumeric(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r == '.' && !dot:
			dot = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}
