package drive

import (
	"context"
	"fmt"

	"github.com/tripdesk-dev/tripdesk/internal/models"
)

// AppFolderName is the root folder the app provisions inside the owner's Drive.
const AppFolderName = "Tripdesk"

// FolderAPI is the slice of the Drive client the provisioner needs.
type FolderAPI interface {
	EnsureFolder(ctx context.Context, name, parentID string) (string, error)
}

// PathProvisioner walks a folder path segment by segment, creating what is
// missing. Lookups are memoized so repeated uploads into the same trip hit
// the API once per segment.
type PathProvisioner struct {
	api   FolderAPI
	cache map[string]string
}

func NewPathProvisioner(api FolderAPI) *PathProvisioner {
	return &PathProvisioner{
		api:   api,
		cache: make(map[string]string),
	}
}

// EnsureFolder resolves one segment, consulting the memo first.
func (p *PathProvisioner) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	key := parentID + "/" + name

	if id, ok := p.cache[key]; ok {
		return id, nil
	}

	id, err := p.api.EnsureFolder(ctx, name, parentID)

	if err != nil {
		return "", err
	}

	p.cache[key] = id
	return id, nil
}

// EnsurePath provisions every segment in order and returns the id of the
// deepest folder.
func (p *PathProvisioner) EnsurePath(ctx context.Context, segments ...string) (string, error) {
	var parentID string

	for _, segment := range segments {
		id, err := p.EnsureFolder(ctx, segment, parentID)

		if err != nil {
			return "", err
		}

		parentID = id
	}

	return parentID, nil
}

// TripFolderPath builds the canonical folder path for a trip:
// Tripdesk / Documentos / Viagens / {Place - }{City}, {Country} ({TripID})
func TripFolderPath(trip *models.Trip) []string {
	leaf := fmt.Sprintf("%s, %s (%d)", trip.City, trip.Country, trip.ID)

	if trip.Place != "" {
		leaf = fmt.Sprintf("%s - %s", trip.Place, leaf)
	}

	return []string{AppFolderName, "Documentos", "Viagens", leaf}
}

// EnsureTripFolder provisions the trip's folder, extended by a member
// subfolder when memberName is set, and returns the target folder id.
func (p *PathProvisioner) EnsureTripFolder(ctx context.Context, trip *models.Trip, memberName string) (string, error) {
	segments := TripFolderPath(trip)

	if memberName != "" {
		segments = append(segments, memberName)
	}

	return p.EnsurePath(ctx, segments...)
}
