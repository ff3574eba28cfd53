package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model

	TripID   uint   `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Location string
	Date     *time.Time
	Details  datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Trip Trip `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
