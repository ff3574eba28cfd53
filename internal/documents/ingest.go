// Package documents orchestrates document ingestion: authorization, drive
// owner resolution, folder provisioning, upload and record creation.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/tripdesk-dev/tripdesk/internal/drive"
	"github.com/tripdesk-dev/tripdesk/internal/models"
	"github.com/tripdesk-dev/tripdesk/internal/policy"
	"github.com/tripdesk-dev/tripdesk/internal/storage"
	"gorm.io/gorm"
)

// TargetAll fans the upload out to every current member of the trip.
const TargetAll = "all"

var (
	ErrAccessDenied   = errors.New("you are not allowed to manage documents on this trip")
	ErrMemberNotFound = errors.New("trip member not found")
)

// Meta carries the user-supplied document fields.
type Meta struct {
	Type           string
	IsMandatory    bool
	ExpirationDate *time.Time
}

// Upload is an attached file. Content is fully buffered so a fan-out can
// replay it per member.
type Upload struct {
	Filename string
	MimeType string
	Content  []byte
}

// Uploader is the slice of the Drive client the service needs.
type Uploader interface {
	drive.FolderAPI
	UploadFile(ctx context.Context, name, mimeType, folderID string, content io.Reader) (*drive.File, error)
}

type Service struct {
	conn     *gorm.DB
	store    *storage.LocalStore
	useDrive bool

	// newUploader is swapped out by tests.
	newUploader func(ctx context.Context, owner *models.User) Uploader
}

func NewService(conn *gorm.DB, store *storage.LocalStore, useDrive bool) *Service {
	return &Service{
		conn:     conn,
		store:    store,
		useDrive: useDrive,
		newUploader: func(ctx context.Context, owner *models.User) Uploader {
			return drive.NewClient(ctx, owner)
		},
	}
}

// Ingest validates, resolves storage ownership, provisions folders and
// creates one document per fan-out target. target is empty for a single
// unassigned document, TargetAll for one per trip member, or a member id.
//
// The fan-out is not transactional: a remote failure aborts the remaining
// members and already-created documents stay. Folder provisioning is
// idempotent, so a retry converges instead of duplicating folders.
func (s *Service) Ingest(ctx context.Context, principal *models.User, trip *models.Trip, meta Meta, upload *Upload, target string) ([]models.Document, error) {
	p := policy.Principal{ID: principal.ID, Role: principal.Role, FamilyID: principal.FamilyID}

	if !policy.CanAccess(p, trip.UserID, trip.User.FamilyID) {
		return nil, ErrAccessDenied
	}

	var uploader Uploader
	var provisioner *drive.PathProvisioner

	if upload != nil && s.useDrive {
		owner, err := drive.ResolveOwner(s.conn, principal)

		if err != nil {
			return nil, err
		}

		if !owner.HasDriveCredential() {
			return nil, &drive.CredentialMissingError{Self: owner.ID == principal.ID}
		}

		uploader = s.newUploader(ctx, owner)
		provisioner = drive.NewPathProvisioner(uploader)
	}

	targets, err := s.resolveTargets(trip, target)

	if err != nil {
		return nil, err
	}

	var created []models.Document

	for _, member := range targets {
		doc := models.Document{
			TripID:         trip.ID,
			Type:           meta.Type,
			IsMandatory:    meta.IsMandatory,
			ExpirationDate: meta.ExpirationDate,
			Status:         models.DocumentStatusPending,
		}

		var memberName string

		if member != nil {
			id := member.ID
			doc.TripMemberID = &id
			memberName = member.Name
		}

		if upload != nil {
			filePath, err := s.storeFile(ctx, provisioner, uploader, trip, memberName, meta.Type, upload)

			if err != nil {
				return created, err
			}

			doc.FilePath = filePath
			doc.Status = models.DocumentStatusSent
		}

		if err := s.conn.Create(&doc).Error; err != nil {
			return created, err
		}

		created = append(created, doc)
	}

	return created, nil
}

func (s *Service) resolveTargets(trip *models.Trip, target string) ([]*models.TripMember, error) {
	switch target {
	case "":
		return []*models.TripMember{nil}, nil
	case TargetAll:
		var members []models.TripMember

		if err := s.conn.Where("trip_id = ?", trip.ID).Order("name").Find(&members).Error; err != nil {
			return nil, err
		}

		targets := make([]*models.TripMember, len(members))
		for i := range members {
			targets[i] = &members[i]
		}

		return targets, nil
	default:
		memberID, err := strconv.ParseUint(target, 10, 32)

		if err != nil {
			return nil, ErrMemberNotFound
		}

		var member models.TripMember

		if err := s.conn.Where("id = ? AND trip_id = ?", memberID, trip.ID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMemberNotFound
			}
			return nil, err
		}

		return []*models.TripMember{&member}, nil
	}
}

func (s *Service) storeFile(ctx context.Context, provisioner *drive.PathProvisioner, uploader Uploader, trip *models.Trip, memberName, docType string, upload *Upload) (string, error) {
	storedName := fmt.Sprintf("%s - %s", docType, upload.Filename)

	if s.useDrive {
		folderID, err := provisioner.EnsureTripFolder(ctx, trip, memberName)

		if err != nil {
			return "", err
		}

		file, err := uploader.UploadFile(ctx, storedName, upload.MimeType, folderID, bytes.NewReader(upload.Content))

		if err != nil {
			return "", err
		}

		return file.WebViewLink, nil
	}

	return s.store.Save("documents", storedName, bytes.NewReader(upload.Content))
}

// RemoveStoredFile deletes the document's file from local disk, best-effort.
// Drive links are left alone on purpose: remote files stay reachable outside
// the app and deleting a household's shared copies is worse than leaving an
// orphan.
func (s *Service) RemoveStoredFile(doc *models.Document) {
	if doc.FilePath == "" || strings.HasPrefix(doc.FilePath, "http") {
		return
	}

	if err := s.store.Delete(doc.FilePath); err != nil {
		log.Printf("Failed to delete stored file %s: %v", doc.FilePath, err)
	}
}
