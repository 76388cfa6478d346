// Package lifecycle defines the normalized warranty and end-of-life data
// model shared by the vendor clients and the reconciler: a canonical Date,
// the per-serial Record, and the Set that guarantees at most one record per
// serial.
package lifecycle

import (
	"strings"
	"time"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/constants"
	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// Date is a calendar date with no time-of-day or zone component. The vendor
// APIs disagree about timestamp formats; everything is reduced to a date
// before comparison because the CMDB stores these columns as plain dates.
type Date struct {
	t time.Time
}

// dateLayouts are the formats observed across the vendor APIs, tried in
// order. Dell appends a meaningless time-of-day, Cisco EOX wraps dates in
// {value, dateFormat} objects, and Meraki co-termination licenses spell
// dates out in English.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02-Jan-2006",
	"Jan 2, 2006 MST",
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a vendor-supplied date string into a canonical Date.
func ParseDate(s string) (Date, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Date{}, errors.NewParseError("date", s, "empty value", nil)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DateOf(t), nil
		}
	}

	return Date{}, errors.NewParseError("date", trimmed, "unrecognized date format", nil)
}

// String formats the date in the canonical YYYY-MM-DD form used for CMDB
// writes and comparisons.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(constants.DateFormat)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// Equal reports whether two dates fall on the same day.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// After reports whether d falls strictly after o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same flexible
// parsing as ParseDate.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Ptr returns a pointer to the date, for populating optional record fields.
func (d Date) Ptr() *Date {
	return &d
}
