package models

import (
	"time"

	"gorm.io/gorm"
)

type Document struct {
	gorm.Model

	TripID         uint   `gorm:"not null;index"`
	TripMemberID   *uint  `gorm:"index"`
	Type           string `gorm:"not null"` // "passport", "visa", "insurance", etc.
	Status         string `gorm:"not null;default:pending"`
	IsMandatory    bool   `gorm:"not null;default:false"`
	ExpirationDate *time.Time
	FilePath       string // local relative path or Drive view link

	// Relationships
	Trip   Trip        `gorm:"foreignKey:TripID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Member *TripMember `gorm:"foreignKey:TripMemberID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// ReconcileExpiration reports whether the document should flip to expired at
// the given instant. It never rewrites documents already marked expired;
// callers persist the change when it returns true.
func ReconcileExpiration(doc *Document, now time.Time) bool {
	if doc.Status == DocumentStatusExpired {
		return false
	}
	if doc.ExpirationDate == nil || !doc.ExpirationDate.Before(now) {
		return false
	}
	doc.Status = DocumentStatusExpired
	return true
}
