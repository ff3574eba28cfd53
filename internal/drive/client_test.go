package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeDrive stands up an httptest server answering the subset of the Drive
// API the client uses and returns a client pointed at it.
func newFakeDrive(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClientWithHTTP(server.Client(), server.URL, server.URL)
}

func TestFindFolder(t *testing.T) {
	var gotQuery string

	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(fileList{Files: []File{{ID: "folder-1", Name: "Tripdesk"}}})
	})

	id, err := client.FindFolder(context.Background(), "Tripdesk", "parent-9")
	if err != nil {
		t.Fatalf("FindFolder() failed: %v", err)
	}
	if id != "folder-1" {
		t.Errorf("id = %q, want folder-1", id)
	}

	want := "mimeType='application/vnd.google-apps.folder' and name='Tripdesk' and trashed=false and 'parent-9' in parents"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestFindFolderNoMatch(t *testing.T) {
	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fileList{})
	})

	id, err := client.FindFolder(context.Background(), "Missing", "")
	if err != nil {
		t.Fatalf("FindFolder() failed: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty id for no match, got %q", id)
	}
}

func TestFindFolderEscapesQuotes(t *testing.T) {
	var gotQuery string

	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(fileList{})
	})

	if _, err := client.FindFolder(context.Background(), "Ana's Trip", ""); err != nil {
		t.Fatalf("FindFolder() failed: %v", err)
	}

	if !strings.Contains(gotQuery, `name='Ana\'s Trip'`) {
		t.Errorf("quote not escaped in query: %q", gotQuery)
	}
}

func TestEnsureFolderCreatesWhenMissing(t *testing.T) {
	var created map[string]interface{}

	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(fileList{})
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
			t.Errorf("failed to decode create payload: %v", err)
		}
		json.NewEncoder(w).Encode(File{ID: "new-folder"})
	})

	id, err := client.EnsureFolder(context.Background(), "Viagens", "parent-1")
	if err != nil {
		t.Fatalf("EnsureFolder() failed: %v", err)
	}
	if id != "new-folder" {
		t.Errorf("id = %q, want new-folder", id)
	}

	if created["name"] != "Viagens" {
		t.Errorf("created name = %v, want Viagens", created["name"])
	}
	if created["mimeType"] != folderMimeType {
		t.Errorf("created mimeType = %v, want %q", created["mimeType"], folderMimeType)
	}
	parents, _ := created["parents"].([]interface{})
	if len(parents) != 1 || parents[0] != "parent-1" {
		t.Errorf("created parents = %v, want [parent-1]", created["parents"])
	}
}

func TestEnsureFolderReusesExisting(t *testing.T) {
	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected %s request, existing folder must not be recreated", r.Method)
		}
		json.NewEncoder(w).Encode(fileList{Files: []File{{ID: "existing"}}})
	})

	id, err := client.EnsureFolder(context.Background(), "Documentos", "")
	if err != nil {
		t.Fatalf("EnsureFolder() failed: %v", err)
	}
	if id != "existing" {
		t.Errorf("id = %q, want existing", id)
	}
}

func TestUploadFile(t *testing.T) {
	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/related" {
			t.Errorf("content type = %q (%v), want multipart/related", mediaType, err)
		}

		reader := multipart.NewReader(r.Body, params["boundary"])

		metaPart, err := reader.NextPart()
		if err != nil {
			t.Errorf("missing metadata part: %v", err)
			return
		}

		var metadata map[string]interface{}
		if err := json.NewDecoder(metaPart).Decode(&metadata); err != nil {
			t.Errorf("failed to decode metadata part: %v", err)
			return
		}
		if metadata["name"] != "Passport - scan.pdf" {
			t.Errorf("uploaded name = %v, want Passport - scan.pdf", metadata["name"])
		}
		parents, _ := metadata["parents"].([]interface{})
		if len(parents) != 1 || parents[0] != "folder-1" {
			t.Errorf("uploaded parents = %v, want [folder-1]", metadata["parents"])
		}

		mediaPart, err := reader.NextPart()
		if err != nil {
			t.Errorf("missing media part: %v", err)
			return
		}
		if ct := mediaPart.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("media content type = %q, want application/pdf", ct)
		}
		content, _ := io.ReadAll(mediaPart)
		if string(content) != "pdf-bytes" {
			t.Errorf("media content = %q, want pdf-bytes", content)
		}

		json.NewEncoder(w).Encode(File{
			ID:          "file-1",
			Name:        "Passport - scan.pdf",
			WebViewLink: "https://drive.google.com/file/d/file-1/view",
		})
	})

	file, err := client.UploadFile(context.Background(), "Passport - scan.pdf", "application/pdf", "folder-1", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("UploadFile() failed: %v", err)
	}

	if file.WebViewLink != "https://drive.google.com/file/d/file-1/view" {
		t.Errorf("WebViewLink = %q", file.WebViewLink)
	}
}

func TestDoUnauthorizedMapsToAuthExpired(t *testing.T) {
	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	})

	_, err := client.FindFolder(context.Background(), "Tripdesk", "")
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}

func TestDoServerErrorCarriesStatus(t *testing.T) {
	client := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	_, err := client.CreateFolder(context.Background(), "Tripdesk", "")

	var driveErr *Error
	if !errors.As(err, &driveErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if driveErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", driveErr.StatusCode, http.StatusForbidden)
	}
	if !strings.Contains(driveErr.Message, "quota exceeded") {
		t.Errorf("message = %q, want it to carry the response body", driveErr.Message)
	}
}
