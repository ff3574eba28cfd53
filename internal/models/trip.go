package models

import (
	"time"

	"gorm.io/gorm"
)

type Trip struct {
	gorm.Model

	UserID    uint   `gorm:"not null;index"`
	Country   string `gorm:"not null"`
	City      string `gorm:"not null"`
	Place     string
	Type      string `gorm:"not null"` // "study", "language", "tourism", etc.
	Status    string `gorm:"not null;default:planning"`
	StartDate *time.Time
	EndDate   *time.Time

	// Relationships
	User      User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members   []TripMember `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Documents []Document   `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks     []Task       `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Budgets   []Budget     `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Purchases []Purchase   `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Housings  []Housing    `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events    []Event      `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
