package models

import "gorm.io/gorm"

// ShoppingItem lives on the household shopping list: items sit in the catalog
// (IsOnList false) until moved onto the monthly list, then get checked off.
type ShoppingItem struct {
	gorm.Model

	UserID    uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	IsOnList  bool   `gorm:"not null;default:false"`
	IsChecked bool   `gorm:"not null;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
