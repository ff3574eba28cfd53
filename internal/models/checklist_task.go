package models

import "gorm.io/gorm"

// ChecklistTask is a general household to-do, independent of any trip,
// optionally assigned to a family member.
type ChecklistTask struct {
	gorm.Model

	UserID         uint   `gorm:"not null;index"`
	FamilyMemberID *uint  `gorm:"index"`
	Description    string `gorm:"not null"`
	IsCompleted    bool   `gorm:"not null;default:false"`

	// Relationships
	User   User          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Member *FamilyMember `gorm:"foreignKey:FamilyMemberID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
