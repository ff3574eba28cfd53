package policy

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = conn.AutoMigrate(&models.User{}, &models.Trip{}, &models.TripMember{}, &models.Document{}, &models.Task{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return conn
}

func seedTrip(t *testing.T, conn *gorm.DB) *models.Trip {
	t.Helper()

	user := models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: "member"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	trip := models.Trip{
		UserID:  user.ID,
		Country: "Ireland",
		City:    "Dublin",
		Type:    "language",
		Status:  models.TripStatusPlanning,
	}
	if err := conn.Create(&trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}

	return &trip
}

func TestValidateTransitionConfirm(t *testing.T) {
	conn := openTestDB(t)
	trip := seedTrip(t, conn)

	doc := models.Document{
		TripID:      trip.ID,
		Type:        "passport",
		Status:      models.DocumentStatusPending,
		IsMandatory: true,
	}
	if err := conn.Create(&doc).Error; err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	err := ValidateTransition(conn, trip, models.TripStatusConfirmed)
	if !errors.Is(err, ErrPendingMandatoryDocuments) {
		t.Fatalf("expected ErrPendingMandatoryDocuments, got %v", err)
	}

	if err := conn.Model(&doc).Update("status", models.DocumentStatusApproved).Error; err != nil {
		t.Fatalf("failed to approve document: %v", err)
	}

	if err := ValidateTransition(conn, trip, models.TripStatusConfirmed); err != nil {
		t.Fatalf("expected confirm to pass after approval, got %v", err)
	}
}

func TestValidateTransitionConfirmIgnoresOptionalDocuments(t *testing.T) {
	conn := openTestDB(t)
	trip := seedTrip(t, conn)

	doc := models.Document{
		TripID:      trip.ID,
		Type:        "photo",
		Status:      models.DocumentStatusPending,
		IsMandatory: false,
	}
	if err := conn.Create(&doc).Error; err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	if err := ValidateTransition(conn, trip, models.TripStatusConfirmed); err != nil {
		t.Fatalf("optional document should not block confirm, got %v", err)
	}
}

func TestValidateTransitionComplete(t *testing.T) {
	conn := openTestDB(t)
	trip := seedTrip(t, conn)

	task := models.Task{TripID: trip.ID, Description: "Book flights", Category: "travel", Status: models.TaskStatusPending}
	if err := conn.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	err := ValidateTransition(conn, trip, models.TripStatusCompleted)
	if !errors.Is(err, ErrPendingTasks) {
		t.Fatalf("expected ErrPendingTasks, got %v", err)
	}

	if err := conn.Model(&task).Update("status", models.TaskStatusCompleted).Error; err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	if err := ValidateTransition(conn, trip, models.TripStatusCompleted); err != nil {
		t.Fatalf("expected complete to pass after task completion, got %v", err)
	}
}

func TestValidateTransitionUnguardedStatuses(t *testing.T) {
	conn := openTestDB(t)
	trip := seedTrip(t, conn)

	doc := models.Document{TripID: trip.ID, Type: "visa", Status: models.DocumentStatusPending, IsMandatory: true}
	if err := conn.Create(&doc).Error; err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	for _, status := range []string{models.TripStatusDocuments, models.TripStatusInProgress, models.TripStatusPlanning} {
		if err := ValidateTransition(conn, trip, status); err != nil {
			t.Errorf("transition to %q should not be guarded, got %v", status, err)
		}
	}
}
