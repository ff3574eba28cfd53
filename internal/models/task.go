package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	TripID       uint   `gorm:"not null;index"`
	TripMemberID *uint  `gorm:"index"`
	Description  string `gorm:"not null"`
	Category     string `gorm:"not null"`
	Status       string `gorm:"not null;default:pending"`
	DueDate      *time.Time

	// Relationships
	Trip   Trip        `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Member *TripMember `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
