// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

const (
	DriverActive   = "active"
	DriverInactive = "inactive"
)

type Driver struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"uniqueIndex"` // Foreign key to User
	User          *User  `json:"-" gorm:"foreignKey:UserID"`
	FullName      string `json:"full_name" gorm:"not null"`
	NationalID    string `json:"national_id" gorm:"uniqueIndex;not null"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
	Status        string `json:"status" gorm:"type:varchar(20);default:active"` // "active", "inactive"
	// Email and password live on the User.
}
