package models

import (
	"gorm.io/gorm"
)

const (
	ShiftActive   = "active"
	ShiftInactive = "inactive"

	// MaxShiftMinutes caps a single shift at 8 hours.
	MaxShiftMinutes = 8 * 60
	// MinShiftMinutes is the shortest shift automatic generation will emit.
	MinShiftMinutes = 60
)

// Shift is one slot of work on a route for a given weekday of a planning week.
type Shift struct {
	gorm.Model
	RouteID       uint      `json:"route_id" gorm:"index:idx_shift_route_week;not null"`
	Route         *Route    `json:"-" gorm:"foreignKey:RouteID"`
	Weekday       Weekday   `json:"weekday" gorm:"type:varchar(10);not null"`
	StartTime     ClockTime `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime       ClockTime `json:"end_time" gorm:"type:varchar(5);not null"`
	DurationHours int       `json:"duration_hours"`
	WeekNumber    int       `json:"week_number" gorm:"index:idx_shift_route_week;not null"`
	Status        string    `json:"status" gorm:"type:varchar(20);default:active"`

	Assignments []ShiftAssignment `json:"-" gorm:"foreignKey:ShiftID"`
}
