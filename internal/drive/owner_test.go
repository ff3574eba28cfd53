package drive

import (
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

	if err := conn.AutoMigrate(&models.User{}, &models.Family{}, &models.FamilyMember{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return conn
}

func createUser(t *testing.T, conn *gorm.DB, name, email string, familyID *uint) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "x", Role: "member", FamilyID: familyID}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return &user
}

func TestResolveOwnerWithoutFamily(t *testing.T) {
	conn := openTestDB(t)
	principal := createUser(t, conn, "Ana", "ana@example.com", nil)

	owner, err := ResolveOwner(conn, principal)
	if err != nil {
		t.Fatalf("ResolveOwner() failed: %v", err)
	}
	if owner.ID != principal.ID {
		t.Errorf("owner = %d, want principal %d", owner.ID, principal.ID)
	}
}

func TestResolveOwnerPrefersPrimaryMember(t *testing.T) {
	conn := openTestDB(t)

	family := models.Family{Name: "Família de Carlos"}
	if err := conn.Create(&family).Error; err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	primary := createUser(t, conn, "Carlos", "carlos@example.com", &family.ID)
	principal := createUser(t, conn, "Ana", "ana@example.com", &family.ID)

	member := models.FamilyMember{
		FamilyID:  family.ID,
		UserID:    &primary.ID,
		Name:      primary.Name,
		Email:     primary.Email,
		Role:      "pai",
		IsPrimary: true,
	}
	if err := conn.Create(&member).Error; err != nil {
		t.Fatalf("failed to create family member: %v", err)
	}

	owner, err := ResolveOwner(conn, principal)
	if err != nil {
		t.Fatalf("ResolveOwner() failed: %v", err)
	}
	if owner.ID != primary.ID {
		t.Errorf("owner = %d, want primary member %d", owner.ID, primary.ID)
	}
}

func TestResolveOwnerFallsBackWithoutPrimary(t *testing.T) {
	conn := openTestDB(t)

	family := models.Family{Name: "Família de Ana"}
	if err := conn.Create(&family).Error; err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	principal := createUser(t, conn, "Ana", "ana@example.com", &family.ID)

	owner, err := ResolveOwner(conn, principal)
	if err != nil {
		t.Fatalf("ResolveOwner() failed: %v", err)
	}
	if owner.ID != principal.ID {
		t.Errorf("owner = %d, want principal %d when no primary exists", owner.ID, principal.ID)
	}
}

func TestResolveOwnerFallsBackWhenPrimaryUnlinked(t *testing.T) {
	conn := openTestDB(t)

	family := models.Family{Name: "Família de Ana"}
	if err := conn.Create(&family).Error; err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	principal := createUser(t, conn, "Ana", "ana@example.com", &family.ID)

	// invited primary who never registered
	member := models.FamilyMember{
		FamilyID:  family.ID,
		Name:      "Carlos",
		Email:     "carlos@example.com",
		Role:      "pai",
		IsPrimary: true,
	}
	if err := conn.Create(&member).Error; err != nil {
		t.Fatalf("failed to create family member: %v", err)
	}

	owner, err := ResolveOwner(conn, principal)
	if err != nil {
		t.Fatalf("ResolveOwner() failed: %v", err)
	}
	if owner.ID != principal.ID {
		t.Errorf("owner = %d, want principal %d when primary has no account", owner.ID, principal.ID)
	}
}
