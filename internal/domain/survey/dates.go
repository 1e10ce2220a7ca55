package survey

import (
	"strings"
	"time"
)

// dateLayouts are the formats the normalizer accepts, tried in order.
// Source systems deliver a mix of ISO timestamps, bare ISO dates, and the
// DD/MM/YYYY notation used in survey reports.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate normalizes a heterogeneous date value to a UTC calendar date.
// It accepts time.Time, *time.Time, and strings in any of the supported
// layouts.  The second return value is false when the value is absent,
// zero, or unparseable; no error is produced because missing dates are an
// expected condition handled by the scheduling algorithm.
func ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(*v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOnly(t), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// dateOnly truncates to midnight UTC so date arithmetic ignores clock time.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDMY renders a date in the DD/MM/YYYY notation used throughout
// survey reports.
func FormatDMY(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatSurvey renders a survey date with its window annotation, e.g.
// "10/03/2025 (±3M)" or "01/01/2025 (no window)".
func FormatSurvey(t time.Time, w Window) string {
	return FormatDMY(t) + " (" + w.String() + ")"
}

// AddYearsClamped shifts a date by whole years, clamping Feb 29 to Feb 28
// when the target year is not a leap year.  Plain AddDate would normalize
// Feb 29 to Mar 1, silently moving the anniversary across a month boundary.
func AddYearsClamped(t time.Time, years int) time.Time {
	year := t.Year() + years
	return AnchorInYear(year, t.Month(), t.Day())
}

// AnchorInYear materializes a day/month anchor in a concrete year, clamping
// the day to the last day of the month when needed (Feb 29 in non-leap
// years).
func AnchorInYear(year int, month time.Month, day int) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether the Gregorian year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
