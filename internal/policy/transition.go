package policy

import (
	"errors"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPendingMandatoryDocuments = errors.New("cannot confirm trip without approved mandatory documents")
	ErrPendingTasks              = errors.New("cannot complete trip with pending tasks")
)

// ValidateTransition checks a trip status change against the current state of
// the trip's children. It only reads; the caller applies the status write when
// the verdict is nil.
func ValidateTransition(conn *gorm.DB, trip *models.Trip, newStatus string) error {
	switch newStatus {
	case models.TripStatusConfirmed:
		var count int64

		err := conn.Model(&models.Document{}).
			Where("trip_id = ? AND is_mandatory = ? AND status != ?", trip.ID, true, models.DocumentStatusApproved).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrPendingMandatoryDocuments
		}
	case models.TripStatusCompleted:
		var count int64

		err := conn.Model(&models.Task{}).
			Where("trip_id = ? AND status != ?", trip.ID, models.TaskStatusCompleted).
			Count(&count).Error

		if err != nil {
			return err
		}

		if count > 0 {
			return ErrPendingTasks
		}
	}

	return nil
}
