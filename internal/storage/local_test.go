package storage

import (
	"os"
	"strings"
	"testing"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	relPath, err := store.Save("documents", "passport.pdf", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if !strings.HasPrefix(relPath, "documents/") {
		t.Errorf("expected path under documents/, got %q", relPath)
	}
	if !strings.HasSuffix(relPath, "-passport.pdf") {
		t.Errorf("expected uuid-prefixed filename, got %q", relPath)
	}

	data, err := os.ReadFile(store.Path(relPath))
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("stored content = %q, want %q", data, "content")
	}

	if err := store.Delete(relPath); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := os.Stat(store.Path(relPath)); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err = %v", err)
	}
}

func TestLocalStoreSaveAvoidsCollisions(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	first, err := store.Save("documents", "visa.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	second, err := store.Save("documents", "visa.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if first == second {
		t.Errorf("repeated uploads of the same name must not collide, both got %q", first)
	}
}

func TestLocalStoreDeleteMissingFile(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if err := store.Delete("documents/gone.pdf"); err != nil {
		t.Errorf("deleting a missing file should be a no-op, got %v", err)
	}
}

func TestLocalStoreSaveStripsDirectoryFromFilename(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	relPath, err := store.Save("documents", "../escape.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if strings.Contains(relPath, "..") {
		t.Errorf("filename must be flattened to its base, got %q", relPath)
	}
}
