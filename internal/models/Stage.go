package models

import (
	"gorm.io/gorm"
)

// Stage is a stop along a route, ordered by Seq. Coordinates are optional.
type Stage struct {
	gorm.Model
	RouteID uint    `json:"route_id" gorm:"index;not null"`
	Seq     int     `json:"seq" gorm:"not null"`
	Name    string  `json:"name" gorm:"not null"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
