// Package drive talks to the Google Drive v3 API: folder lookup and creation,
// multipart file uploads, and the owner-resolution rule that decides whose
// credentials a family upload runs under.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"

	"github.com/tripdesk-dev/tripdesk/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	folderMimeType = "application/vnd.google-apps.folder"
)

// OAuthConfig builds the Google OAuth config used both for the connect flow
// and for authenticated Drive calls. drive.file grants access only to files
// the app creates.
func OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/drive.file",
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
}

// NewClient returns a client acting as the given drive owner, refreshing the
// access token through the owner's refresh token when Google requires it.
func NewClient(ctx context.Context, owner *models.User) *Client {
	token := &oauth2.Token{
		AccessToken:  owner.GoogleToken,
		RefreshToken: owner.GoogleRefreshToken,
	}

	return &Client{
		httpClient: OAuthConfig().Client(ctx, token),
		baseURL:    defaultBaseURL,
		uploadURL:  defaultUploadURL,
	}
}

// NewClientWithHTTP wires an arbitrary HTTP client and endpoints, used by tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL, uploadURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		uploadURL:  uploadURL,
	}
}

// File is the subset of Drive file metadata the app cares about.
type File struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

type fileList struct {
	Files []File `json:"files"`
}

// FindFolder looks up a non-trashed folder by exact name under parentID
// (any parent when parentID is empty). Returns "" when no folder matches.
func (c *Client) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false",
		folderMimeType, strings.ReplaceAll(name, "'", `\'`))

	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("spaces", "drive")
	params.Set("fields", "files(id, name)")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var list fileList

	if err := c.do(req, &list); err != nil {
		return "", err
	}

	if len(list.Files) == 0 {
		return "", nil
	}

	return list.Files[0].ID, nil
}

// CreateFolder creates a folder under parentID (drive root when empty) and
// returns its id.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	metadata := map[string]interface{}{
		"name":     name,
		"mimeType": folderMimeType,
	}

	if parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	payload, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode folder metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files?fields=id", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var created File

	if err := c.do(req, &created); err != nil {
		return "", err
	}

	return created.ID, nil
}

// EnsureFolder is the idempotent get-or-create used for every path segment.
func (c *Client) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	folderID, err := c.FindFolder(ctx, name, parentID)

	if err != nil {
		return "", err
	}

	if folderID != "" {
		return folderID, nil
	}

	return c.CreateFolder(ctx, name, parentID)
}

// UploadFile uploads content into the given folder via a multipart/related
// request and returns the created file with its view link.
func (c *Client) UploadFile(ctx context.Context, name, mimeType, folderID string, content io.Reader) (*File, error) {
	metadata := map[string]interface{}{
		"name": name,
	}

	if folderID != "" {
		metadata["parents"] = []string{folderID}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")

	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return nil, fmt.Errorf("failed to encode file metadata: %w", err)
	}

	mediaHeader := textproto.MIMEHeader{}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	mediaHeader.Set("Content-Type", mimeType)

	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	if _, err := io.Copy(mediaPart, content); err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload request: %w", err)
	}

	uploadURL := c.uploadURL + "/files?uploadType=multipart&fields=id,name,webViewLink"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	var uploaded File

	if err := c.do(req, &uploaded); err != nil {
		return nil, err
	}

	return &uploaded, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "failed to read response"}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: "invalid response body"}
		}
	}

	return nil
}
