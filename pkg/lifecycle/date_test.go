package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/lifecycle"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain date from cisco coverage",
			input: "2027-01-31",
			want:  "2027-01-31",
		},
		{
			name:  "dell entitlement timestamp with millis",
			input: "2031-07-09T04:59:59.999Z",
			want:  "2031-07-09",
		},
		{
			name:  "meraki license expiration",
			input: "2027-08-10T00:00:00Z",
			want:  "2027-08-10",
		},
		{
			name:  "meraki co-termination spelling",
			input: "Aug 10, 2027 UTC",
			want:  "2027-08-10",
		},
		{
			name:  "naive iso timestamp",
			input: "2026-03-15T23:59:59",
			want:  "2026-03-15",
		},
		{
			name:  "servicenow glide datetime",
			input: "2026-03-15 00:00:00",
			want:  "2026-03-15",
		},
		{
			name:  "day-month-year",
			input: "31-Jan-2027",
			want:  "2027-01-31",
		},
		{
			name:  "surrounding whitespace",
			input: "  2027-01-31  ",
			want:  "2027-01-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lifecycle.ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDateFailures(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2026-13-40", "99/99/9999"} {
		t.Run(input, func(t *testing.T) {
			_, err := lifecycle.ParseDate(input)
			assert.Error(t, err)
		})
	}
}

func TestDateComparisons(t *testing.T) {
	early := lifecycle.NewDate(2025, time.January, 1)
	late := lifecycle.NewDate(2026, time.January, 1)

	assert.True(t, late.After(early))
	assert.True(t, early.Before(late))
	assert.False(t, early.Equal(late))
	assert.True(t, early.Equal(lifecycle.NewDate(2025, time.January, 1)))
}

func TestDateOfTruncatesTime(t *testing.T) {
	stamp := time.Date(2026, time.June, 30, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-06-30", lifecycle.DateOf(stamp).String())
}

func TestDateZero(t *testing.T) {
	var d lifecycle.Date
	assert.True(t, d.IsZero())
	assert.Empty(t, d.String())
}

func TestDateText(t *testing.T) {
	d := lifecycle.NewDate(2027, time.March, 16)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2027-03-16", string(text))

	var back lifecycle.Date
	require.NoError(t, back.UnmarshalText([]byte("2027-03-16T00:00:00Z")))
	assert.True(t, d.Equal(back))

	assert.Error(t, back.UnmarshalText([]byte("bogus")))
}
