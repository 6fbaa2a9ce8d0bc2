package models

import (
	"gorm.io/gorm"
)

const (
	RouteActive   = "active"
	RouteInactive = "inactive"
)

// Route is a service path driven by the fleet. Shifts are planned per route
// and week; stages list the stops in order.
type Route struct {
	gorm.Model

	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"type:varchar(20);default:active"`

	// Geometry is a LINESTRING (SRID 4326) stored as WKB.
	// The API speaks GeoJSON; see controllers.RouteResponse.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	Stages []Stage `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stages,omitempty"`
}
