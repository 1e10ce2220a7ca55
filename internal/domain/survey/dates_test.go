package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	want := date(2024, time.March, 10)

	cases := []struct {
		name  string
		value interface{}
		want  time.Time
		ok    bool
	}{
		{"time value", time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC), want, true},
		{"time pointer", func() interface{} { v := want; return &v }(), want, true},
		{"nil pointer", (*time.Time)(nil), time.Time{}, false},
		{"zero time", time.Time{}, time.Time{}, false},
		{"rfc3339", "2024-03-10T00:00:00Z", want, true},
		{"iso date", "2024-03-10", want, true},
		{"dmy slash", "10/03/2024", want, true},
		{"dmy dash", "10-03-2024", want, true},
		{"dmy dots", "10.03.2024", want, true},
		{"long form", "10 March 2024", want, true},
		{"empty string", "  ", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"wrong type", 42, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.value)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDateNormalizesToMidnightUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	in := time.Date(2024, time.March, 10, 23, 45, 0, 0, loc)

	got, ok := ParseDate(in)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 0, got.Hour())
}

func TestAddYearsClamped(t *testing.T) {
	// Feb 29 clamps to Feb 28 in non-leap target years instead of
	// normalizing into March.
	assert.Equal(t, date(2025, time.February, 28), AddYearsClamped(date(2024, time.February, 29), 1))
	assert.Equal(t, date(2028, time.February, 29), AddYearsClamped(date(2024, time.February, 29), 4))
	assert.Equal(t, date(2019, time.February, 28), AddYearsClamped(date(2024, time.February, 29), -5))

	// Ordinary dates shift without adjustment.
	assert.Equal(t, date(2026, time.March, 10), AddYearsClamped(date(2021, time.March, 10), 5))
}

func TestAnchorInYear(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), AnchorInYear(2025, time.February, 29))
	assert.Equal(t, date(2024, time.February, 29), AnchorInYear(2024, time.February, 29))
	assert.Equal(t, date(2023, time.June, 15), AnchorInYear(2023, time.June, 15))
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(2025))
	assert.False(t, IsLeapYear(1900))
}

func TestFormatSurvey(t *testing.T) {
	d := date(2025, time.March, 10)
	assert.Equal(t, "10/03/2025 (±3M)", FormatSurvey(d, WindowAnnual))
	assert.Equal(t, "10/03/2025 (-3M)", FormatSurvey(d, WindowSpecial))
	assert.Equal(t, "10/03/2025 (no window)", FormatSurvey(d, WindowNone))
}
