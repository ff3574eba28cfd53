package models

import "gorm.io/gorm"

// FamilyMember binds a Family to a person. UserID is nil for invited members
// who have not registered yet; linking happens by email when they sign in.
type FamilyMember struct {
	gorm.Model

	FamilyID  uint   `gorm:"not null;index"`
	UserID    *uint  `gorm:"index"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null;index"`
	Role      string `gorm:"not null"`
	IsPrimary bool   `gorm:"not null;default:false"`

	// Relationships
	Family Family `gorm:"foreignKey:FamilyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
