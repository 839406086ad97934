package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes from midnight.
// Valid values are 0 (00:00) through 1440 (24:00, the end of the day).
type TimeOfDay int

const (
	Midnight   TimeOfDay = 0
	EndOfDay   TimeOfDay = 24 * 60
	LastMinute TimeOfDay = 23*60 + 59
)

// ParseTimeOfDay parses a 24-hour "HH:mm" string. "24:00" is accepted as EndOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals; it panics on bad input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Clock builds a TimeOfDay from hour and minute, capped at EndOfDay.
func Clock(hour, minute int) TimeOfDay {
	return Midnight.Add(hour*60 + minute)
}

// Add returns t shifted by minutes, clamped to [Midnight, EndOfDay].
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	v := int(t) + minutes
	switch {
	case v < int(Midnight):
		return Midnight
	case v > int(EndOfDay):
		return EndOfDay
	}
	return TimeOfDay(v)
}

// Sub returns the number of minutes from u to t.
func (t TimeOfDay) Sub(u TimeOfDay) int { return int(t) - int(u) }

func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t > u }

func (t TimeOfDay) Minutes() int { return int(t) }
func (t TimeOfDay) Hour() int    { return int(t) / 60 }
func (t TimeOfDay) Minute() int  { return int(t) % 60 }

// On returns the wall-clock instant t on day's calendar date in day's
// location. 24:00 is midnight of the following day.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

func (t TimeOfDay) Valid() bool { return t >= Midnight && t <= EndOfDay }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText renders "HH:mm" for JSON payloads and query strings.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("time of day %d out of range", int(t))
	}
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start TimeOfDay `bson:"start" json:"start"`
	End   TimeOfDay `bson:"end" json:"end"`
}

func (i Interval) Valid() bool {
	return i.Start.Valid() && i.End.Valid() && i.Start < i.End
}

func (i Interval) Duration() int { return i.End.Sub(i.Start) }

// Overlaps reports whether the two half-open ranges share any minute.
// Ranges that only touch at an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

func (i Interval) String() string {
	return i.Start.String() + " - " + i.End.String()
}
