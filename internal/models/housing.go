package models

import (
	"time"

	"gorm.io/gorm"
)

type Housing struct {
	gorm.Model

	TripID      uint   `gorm:"not null;index"`
	Type        string `gorm:"not null"` // "host_family", "residence", "rental"
	Address     string `gorm:"not null"`
	ContactInfo string
	StartDate   *time.Time
	EndDate     *time.Time
	Cost        *float64 `gorm:"type:decimal(10,2)"`

	// Relationships
	Trip Trip `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
