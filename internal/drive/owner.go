package drive

import (
	"errors"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"gorm.io/gorm"
)

// ResolveOwner decides whose Google credentials an upload should run under.
// Uploads from any family member land in the primary member's Drive so a
// household shares one document tree. Falls back to the principal when there
// is no family, no primary member record, or the record points at a user
// that no longer exists.
func ResolveOwner(conn *gorm.DB, principal *models.User) (*models.User, error) {
	if principal.FamilyID == nil {
		return principal, nil
	}

	var primary models.FamilyMember

	err := conn.Where("family_id = ? AND is_primary = ?", *principal.FamilyID, true).
		First(&primary).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return principal, nil
		}
		return nil, err
	}

	if primary.UserID == nil {
		return principal, nil
	}

	var owner models.User

	if err := conn.First(&owner, *primary.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return principal, nil
		}
		return nil, err
	}

	return &owner, nil
}
