package models

import (
	"fmt"
	"strings"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// Week lists the days in planning order, Monday first.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid weekday %q", s)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index is the position of d in Week, or -1.
func (d Weekday) Index() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts on Sunday.
	return Week[(int(t.Weekday())+6)%7]
}
