package models

import "gorm.io/gorm"

type Budget struct {
	gorm.Model

	TripID        uint    `gorm:"not null;index"`
	Category      string  `gorm:"not null"`
	PlannedAmount float64 `gorm:"not null;type:decimal(10,2)"`
	SpentAmount   float64 `gorm:"not null;default:0;type:decimal(10,2)"`
	Period        string  `gorm:"not null;default:total"` // "monthly", "total"

	// Relationships
	Trip Trip `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
