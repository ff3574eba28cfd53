package models

import "gorm.io/gorm"

type Purchase struct {
	gorm.Model

	TripID        uint     `gorm:"not null;index"`
	TripMemberID  *uint    `gorm:"index"`
	Type          string   `gorm:"not null"` // "before", "after"
	Item          string   `gorm:"not null"`
	Category      string   `gorm:"not null"` // "clothing", "document", "tech", "home"
	EstimatedCost float64  `gorm:"not null;default:0;type:decimal(10,2)"`
	ActualCost    *float64 `gorm:"type:decimal(10,2)"`
	Status        string   `gorm:"not null;default:planned"`

	// Relationships
	Trip   Trip        `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Member *TripMember `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
