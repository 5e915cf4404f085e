package core

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by analytics exports (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// DateRange is an inclusive reporting window
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseDateRange validates two YYYY-MM-DD dates and their order.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, NewValidationError("start_date", fmt.Sprintf("%q is not a valid YYYY-MM-DD date", start))
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, NewValidationError("end_date", fmt.Sprintf("%q is not a valid YYYY-MM-DD date", end))
	}
	if e.Before(s) {
		return DateRange{}, NewValidationError("date_range", fmt.Sprintf("end %s is before start %s", end, start))
	}
	return DateRange{Start: s, End: e}, nil
}

// IsZero reports whether the range is unset
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// String renders the range as "start to end"
func (r DateRange) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
}
