package drive

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"gorm.io/gorm"
)

// fakeFolderAPI hands out deterministic ids and counts calls per segment.
type fakeFolderAPI struct {
	calls map[string]int
	fail  string
}

func newFakeFolderAPI() *fakeFolderAPI {
	return &fakeFolderAPI{calls: make(map[string]int)}
}

func (f *fakeFolderAPI) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	if name == f.fail {
		return "", errors.New("drive unavailable")
	}

	key := parentID + "/" + name
	f.calls[key]++
	return "id:" + key, nil
}

func TestPathProvisionerMemoizesSegments(t *testing.T) {
	api := newFakeFolderAPI()
	p := NewPathProvisioner(api)
	ctx := context.Background()

	first, err := p.EnsurePath(ctx, "Tripdesk", "Documentos", "Viagens")
	if err != nil {
		t.Fatalf("EnsurePath() failed: %v", err)
	}

	second, err := p.EnsurePath(ctx, "Tripdesk", "Documentos", "Viagens")
	if err != nil {
		t.Fatalf("EnsurePath() failed: %v", err)
	}

	if first != second {
		t.Errorf("repeated provisioning returned different ids: %q vs %q", first, second)
	}

	for key, count := range api.calls {
		if count != 1 {
			t.Errorf("segment %q resolved %d times, want 1", key, count)
		}
	}
	if len(api.calls) != 3 {
		t.Errorf("expected 3 distinct segments, got %d", len(api.calls))
	}
}

func TestPathProvisionerPropagatesErrors(t *testing.T) {
	api := newFakeFolderAPI()
	api.fail = "Documentos"
	p := NewPathProvisioner(api)

	_, err := p.EnsurePath(context.Background(), "Tripdesk", "Documentos", "Viagens")
	if err == nil {
		t.Fatal("expected error from failing segment")
	}

	// the failing segment must not be cached
	if _, ok := p.cache["id:/Tripdesk/Documentos"]; ok {
		t.Error("failed segment leaked into the cache")
	}
}

func TestTripFolderPath(t *testing.T) {
	trip := &models.Trip{
		Model:   gorm.Model{ID: 42},
		Country: "Ireland",
		City:    "Dublin",
	}

	got := TripFolderPath(trip)
	want := []string{"Tripdesk", "Documentos", "Viagens", "Dublin, Ireland (42)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TripFolderPath() = %v, want %v", got, want)
	}

	trip.Place = "Trinity College"
	got = TripFolderPath(trip)
	want = []string{"Tripdesk", "Documentos", "Viagens", "Trinity College - Dublin, Ireland (42)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TripFolderPath() with place = %v, want %v", got, want)
	}
}

func TestEnsureTripFolderMemberSubfolder(t *testing.T) {
	api := newFakeFolderAPI()
	p := NewPathProvisioner(api)

	trip := &models.Trip{
		Model:   gorm.Model{ID: 7},
		Country: "Canada",
		City:    "Toronto",
	}

	id, err := p.EnsureTripFolder(context.Background(), trip, "Maria")
	if err != nil {
		t.Fatalf("EnsureTripFolder() failed: %v", err)
	}

	leaf := fmt.Sprintf("Toronto, Canada (%d)", trip.ID)
	wantSuffix := "/" + leaf + "/Maria"
	if !strings.HasSuffix(id, wantSuffix) {
		t.Errorf("expected member subfolder id ending in %q, got %q", wantSuffix, id)
	}

	if len(api.calls) != 5 {
		t.Errorf("expected 5 provisioned segments, got %d", len(api.calls))
	}
}
