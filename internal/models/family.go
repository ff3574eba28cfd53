package models

import "gorm.io/gorm"

type Family struct {
	gorm.Model

	Name string `gorm:"not null"`

	// Relationships
	Members []FamilyMember `gorm:"foreignKey:FamilyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Users   []User         `gorm:"foreignKey:FamilyID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
