package models

import "gorm.io/gorm"

// TripMember is a participant within a Trip, optionally linked to a platform
// User. Documents, tasks and purchases may be scoped to a single member.
type TripMember struct {
	gorm.Model

	TripID uint   `gorm:"not null;index"`
	UserID *uint  `gorm:"index"`
	Name   string `gorm:"not null"`

	// Relationships
	Trip      Trip       `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Documents []Document `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks     []Task     `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Purchases []Purchase `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
