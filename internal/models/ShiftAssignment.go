package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssignmentActive    = "active"
	AssignmentFinished  = "finished"
	AssignmentCancelled = "cancelled"
)

// ShiftAssignment puts a driver on a shift from StartDate on. A nil EndDate
// keeps the assignment open-ended. Dates are UTC midnight.
type ShiftAssignment struct {
	gorm.Model
	ShiftID   uint       `json:"shift_id" gorm:"index;not null"`
	Shift     *Shift     `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
	DriverID  uint       `json:"driver_id" gorm:"index;not null"`
	Driver    *Driver    `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	StartDate time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate   *time.Time `json:"end_date,omitempty" gorm:"type:date"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:active;index"`
}

// CoversDate reports whether day falls inside the assignment's date range.
func (a ShiftAssignment) CoversDate(day time.Time) bool {
	day = DateOf(day)
	if day.Before(DateOf(a.StartDate)) {
		return false
	}
	return a.EndDate == nil || !day.After(DateOf(*a.EndDate))
}

// OverlapsRange reports whether [from, to] intersects the assignment's range.
// A nil to means open-ended.
func (a ShiftAssignment) OverlapsRange(from time.Time, to *time.Time) bool {
	if to != nil && DateOf(*to).Before(DateOf(a.StartDate)) {
		return false
	}
	if a.EndDate != nil && DateOf(*a.EndDate).Before(DateOf(from)) {
		return false
	}
	return true
}
