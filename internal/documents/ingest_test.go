package documents

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/tripdesk-dev/tripdesk/internal/drive"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeUploader records folder and upload calls in place of the Drive client.
type fakeUploader struct {
	uploads    []string
	folders    []string
	failUpload int // fail the nth upload, 1-based; 0 never fails
}

func (f *fakeUploader) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	f.folders = append(f.folders, name)
	return "folder:" + parentID + "/" + name, nil
}

func (f *fakeUploader) UploadFile(ctx context.Context, name, mimeType, folderID string, content io.Reader) (*drive.File, error) {
	if f.failUpload > 0 && len(f.uploads)+1 == f.failUpload {
		return nil, &drive.Error{StatusCode: 502, Message: "backend error"}
	}

	f.uploads = append(f.uploads, name)
	return &drive.File{ID: "file-" + name, Name: name, WebViewLink: "https://drive.example/" + name}, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = conn.AutoMigrate(
		&models.User{}, &models.Family{}, &models.FamilyMember{},
		&models.Trip{}, &models.TripMember{}, &models.Document{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return conn
}

type fixture struct {
	conn      *gorm.DB
	principal *models.User
	trip      *models.Trip
	members   []models.TripMember
}

// seedFixture creates a user with a connected Google account, their trip and
// two trip members.
func seedFixture(t *testing.T, conn *gorm.DB) *fixture {
	t.Helper()

	user := models.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         "member",
		GoogleToken:  "access-token",
	}
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
	trip.User = user

	members := []models.TripMember{
		{TripID: trip.ID, Name: "Ana"},
		{TripID: trip.ID, Name: "Bruno"},
	}
	for i := range members {
		if err := conn.Create(&members[i]).Error; err != nil {
			t.Fatalf("failed to create trip member: %v", err)
		}
	}

	return &fixture{conn: conn, principal: &user, trip: &trip, members: members}
}

func newTestService(conn *gorm.DB, store *storage.LocalStore, useDrive bool, uploader Uploader) *Service {
	svc := NewService(conn, store, useDrive)
	svc.newUploader = func(ctx context.Context, owner *models.User) Uploader {
		return uploader
	}
	return svc
}

func TestIngestMetadataOnly(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	svc := NewService(conn, storage.NewLocalStore(t.TempDir()), false)

	created, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "visa", IsMandatory: true}, nil, "")
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("created %d documents, want 1", len(created))
	}
	doc := created[0]
	if doc.Status != models.DocumentStatusPending {
		t.Errorf("status = %q, want pending without a file", doc.Status)
	}
	if doc.TripMemberID != nil {
		t.Errorf("expected unassigned document, got member %d", *doc.TripMemberID)
	}
	if doc.FilePath != "" {
		t.Errorf("expected no file path, got %q", doc.FilePath)
	}
}

func TestIngestLocalUpload(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	store := storage.NewLocalStore(t.TempDir())
	svc := NewService(conn, store, false)

	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}

	created, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "Passport"}, upload, "")
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("created %d documents, want 1", len(created))
	}
	doc := created[0]
	if doc.Status != models.DocumentStatusSent {
		t.Errorf("status = %q, want sent after upload", doc.Status)
	}
	if !strings.Contains(doc.FilePath, "Passport - scan.pdf") {
		t.Errorf("file path = %q, want renamed to 'Passport - scan.pdf'", doc.FilePath)
	}
}

func TestIngestDriveFanOutAll(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	uploader := &fakeUploader{}
	svc := newTestService(conn, storage.NewLocalStore(t.TempDir()), true, uploader)

	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}

	created, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "Visa"}, upload, TargetAll)
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("created %d documents, want one per member", len(created))
	}
	for _, doc := range created {
		if doc.TripMemberID == nil {
			t.Error("fan-out document missing member assignment")
		}
		if !strings.HasPrefix(doc.FilePath, "https://drive.example/") {
			t.Errorf("file path = %q, want drive view link", doc.FilePath)
		}
	}

	if len(uploader.uploads) != 2 {
		t.Errorf("uploaded %d files, want 2", len(uploader.uploads))
	}

	// member subfolders are provisioned under the trip folder
	var memberFolders []string
	for _, name := range uploader.folders {
		if name == "Ana" || name == "Bruno" {
			memberFolders = append(memberFolders, name)
		}
	}
	if len(memberFolders) != 2 {
		t.Errorf("provisioned member folders %v, want Ana and Bruno", memberFolders)
	}
}

func TestIngestDriveSingleMember(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	uploader := &fakeUploader{}
	svc := newTestService(conn, storage.NewLocalStore(t.TempDir()), true, uploader)

	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}
	target := strconv.FormatUint(uint64(fx.members[1].ID), 10)

	created, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "Visa"}, upload, target)
	if err != nil {
		t.Fatalf("Ingest() failed: %v", err)
	}

	if len(created) != 1 {
		t.Fatalf("created %d documents, want 1", len(created))
	}
	if created[0].TripMemberID == nil || *created[0].TripMemberID != fx.members[1].ID {
		t.Errorf("document assigned to %v, want member %d", created[0].TripMemberID, fx.members[1].ID)
	}
}

func TestIngestUnknownMember(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	svc := NewService(conn, storage.NewLocalStore(t.TempDir()), false)

	_, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "visa"}, nil, "9999")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	_, err = svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "visa"}, nil, "not-a-number")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound for malformed id, got %v", err)
	}
}

func TestIngestAccessDenied(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)

	outsider := models.User{Name: "Eve", Email: "eve@example.com", PasswordHash: "x", Role: "member"}
	if err := conn.Create(&outsider).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	svc := NewService(conn, storage.NewLocalStore(t.TempDir()), false)

	_, err := svc.Ingest(context.Background(), &outsider, fx.trip, Meta{Type: "visa"}, nil, "")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestIngestCredentialMissing(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)

	// disconnect the principal's Google account
	if err := conn.Model(fx.principal).Update("google_token", "").Error; err != nil {
		t.Fatalf("failed to clear token: %v", err)
	}
	fx.principal.GoogleToken = ""

	svc := newTestService(conn, storage.NewLocalStore(t.TempDir()), true, &fakeUploader{})
	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}

	_, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "visa"}, upload, "")

	var missing *drive.CredentialMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected CredentialMissingError, got %v", err)
	}
	if !missing.Self {
		t.Error("expected Self=true when the principal is the drive owner")
	}
}

func TestIngestCredentialMissingOnPrimary(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)

	family := models.Family{Name: "Família de Carlos"}
	if err := conn.Create(&family).Error; err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	// primary member without a connected Google account
	primary := models.User{Name: "Carlos", Email: "carlos@example.com", PasswordHash: "x", Role: "member", FamilyID: &family.ID}
	if err := conn.Create(&primary).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	member := models.FamilyMember{FamilyID: family.ID, UserID: &primary.ID, Name: "Carlos", Email: "carlos@example.com", Role: "pai", IsPrimary: true}
	if err := conn.Create(&member).Error; err != nil {
		t.Fatalf("failed to create family member: %v", err)
	}

	if err := conn.Model(fx.principal).Update("family_id", family.ID).Error; err != nil {
		t.Fatalf("failed to join family: %v", err)
	}
	fx.principal.FamilyID = &family.ID

	svc := newTestService(conn, storage.NewLocalStore(t.TempDir()), true, &fakeUploader{})
	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}

	_, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "visa"}, upload, "")

	var missing *drive.CredentialMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected CredentialMissingError, got %v", err)
	}
	if missing.Self {
		t.Error("expected Self=false when another member holds the household drive")
	}
}

func TestIngestFanOutAbortsOnFailure(t *testing.T) {
	conn := openTestDB(t)
	fx := seedFixture(t, conn)
	uploader := &fakeUploader{failUpload: 2}
	svc := newTestService(conn, storage.NewLocalStore(t.TempDir()), true, uploader)

	upload := &Upload{Filename: "scan.pdf", MimeType: "application/pdf", Content: []byte("pdf")}

	created, err := svc.Ingest(context.Background(), fx.principal, fx.trip, Meta{Type: "Visa"}, upload, TargetAll)

	var driveErr *drive.Error
	if !errors.As(err, &driveErr) {
		t.Fatalf("expected *drive.Error, got %v", err)
	}

	// documents created before the failure survive
	if len(created) != 1 {
		t.Fatalf("created %d documents before failure, want 1", len(created))
	}

	var count int64
	if err := conn.Model(&models.Document{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count documents: %v", err)
	}
	if count != 1 {
		t.Errorf("persisted %d documents, want 1", count)
	}
}
