package models

import "gorm.io/gorm"

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

type User struct {
	gorm.Model
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	NationalID string `json:"national_id" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"`
	Role       string `json:"role" gorm:"type:varchar(20);not null"` // "admin", "driver"

	Driver *Driver `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"driver,omitempty"`
}
