// Package interval provides the calendar-aware recurrence span used by
// chores. Intervals round-trip through their ISO 8601 textual form, which is
// also how they are persisted.
package interval

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// Interval is a calendar-aware span: weeks, months and days keep their
// calendar meaning rather than collapsing to a fixed number of seconds.
type Interval struct {
	d *duration.Duration
}

// Parse parses an ISO 8601 duration string such as "P1W" or "P2DT12H". A
// bare designator like "P" or "PT" carries no components and is rejected;
// ISO 8601 requires at least one.
func Parse(s string) (Interval, error) {
	if !strings.ContainsAny(s, "0123456789") {
		return Interval{}, fmt.Errorf("parse interval %q: no components", s)
	}
	d, err := duration.Parse(s)
	if err != nil {
		return Interval{}, fmt.Errorf("parse interval %q: %w", s, err)
	}
	return Interval{d: d}, nil
}

// FromDuration converts a fixed time.Duration into an Interval.
func FromDuration(d time.Duration) Interval {
	return Interval{d: duration.FromTimeDuration(d)}
}

func (iv Interval) String() string {
	if iv.d == nil {
		return "PT0S"
	}
	return iv.d.String()
}

// IsZero reports whether the interval has no components at all.
func (iv Interval) IsZero() bool {
	return iv.d == nil ||
		(iv.d.Years == 0 && iv.d.Months == 0 && iv.d.Weeks == 0 && iv.d.Days == 0 &&
			iv.d.Hours == 0 && iv.d.Minutes == 0 && iv.d.Seconds == 0)
}

// AddTo advances t by the interval. Calendar components (years, months,
// weeks, days) advance via the calendar so "one month from Jan 31" lands in
// March the way time.AddDate defines it; clock components are added as
// absolute time. Fractional calendar components are folded into the clock
// part using 24-hour days.
func (iv Interval) AddTo(t time.Time) time.Time {
	if iv.d == nil {
		return t
	}

	years, yearFrac := math.Modf(iv.d.Years)
	months, monthFrac := math.Modf(iv.d.Months)
	days, dayFrac := math.Modf(iv.d.Weeks*7 + iv.d.Days)

	t = t.AddDate(int(years), int(months), int(days))

	hours := yearFrac*365*24 + monthFrac*30*24 + dayFrac*24 +
		iv.d.Hours + iv.d.Minutes/60 + iv.d.Seconds/3600
	return t.Add(time.Duration(hours * float64(time.Hour)))
}

// Days returns the approximate length of the interval in 24-hour days,
// counting months as 30 days and years as 365. Only used for coarse
// comparisons such as "is this shorter than a day".
func (iv Interval) Days() float64 {
	if iv.d == nil {
		return 0
	}
	return iv.d.Years*365 + iv.d.Months*30 + iv.d.Weeks*7 + iv.d.Days +
		iv.d.Hours/24 + iv.d.Minutes/1440 + iv.d.Seconds/86400
}

// MarshalJSON encodes the interval as its textual form.
func (iv Interval) MarshalJSON() ([]byte, error) {
	return []byte(`"` + iv.String() + `"`), nil
}

// UnmarshalJSON decodes an interval from its textual form.
func (iv *Interval) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("interval must be a JSON string, got %s", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*iv = parsed
	return nil
}
