package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:member"` // "admin", "member"
	Phone        string
	Avatar       string
	FamilyID     *uint `gorm:"index"`

	// Google account link, used for Drive uploads
	GoogleID           string `gorm:"index"`
	GoogleToken        string
	GoogleRefreshToken string

	// Relationships
	Family            *Family         `gorm:"foreignKey:FamilyID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Trips             []Trip          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ShoppingItems     []ShoppingItem  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ChecklistTasks    []ChecklistTask `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	FamilyMemberships []FamilyMember  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

// HasDriveCredential reports whether the user has connected a Google account
// capable of Drive uploads.
func (u *User) HasDriveCredential() bool {
	return u.GoogleToken != ""
}
