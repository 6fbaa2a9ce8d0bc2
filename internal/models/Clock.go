package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day in minutes since midnight (00:00..23:59).
// It is stored and serialized as "HH:MM".
type ClockTime int

const (
	minutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock accepts "HH:MM" and "HH:MM:SS"; seconds are dropped.
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
}

// MustClock is for literals in tests and seed data.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// Before reports whether c is strictly earlier in the day than o.
func (c ClockTime) Before(o ClockTime) bool { return c < o }

// MinutesUntil returns o - c in minutes. Negative when o is earlier.
func (c ClockTime) MinutesUntil(o ClockTime) int { return int(o) - int(c) }

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
	case []byte:
		parsed, err := ParseClock(string(v))
		if err != nil {
			return err
		}
		*c = parsed
	case time.Time:
		*c = ClockTime(v.Hour()*60 + v.Minute())
	case nil:
		*c = 0
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
	return nil
}

// ParseDate parses a calendar date ("2006-01-02") as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DateOf drops the clock part of t, keeping its calendar date in t's location,
// and returns that date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
