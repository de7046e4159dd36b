// Package drive implements the cloud provider contract against a
// Google-Drive-style API: folders are searched and created by name and
// parent, uploads are multipart create-or-update, and downloads address
// files by ID.
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
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"daybook/internal/application"
	"daybook/internal/domain"
	"daybook/internal/ports"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://www.googleapis.com"

	// JournalRoot is the fixed remote folder all entry files live under.
	JournalRoot = "Daybook/Journal"

	folderMIMEType = "application/vnd.google-apps.folder"
)

// Client implements ports.CloudProvider over the Drive v3 API.
type Client struct {
	baseURL string
	root    string
	tokens  ports.TokenSource
	http    *http.Client
	logger  *log.Logger
}

var _ ports.CloudProvider = (*Client)(nil)

// NewClient creates a Drive client using tokens for authorization. A nil
// logger discards output.
func NewClient(tokens ports.TokenSource, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: DefaultBaseURL,
		root:    JournalRoot,
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// SetBaseURL points the client at a different endpoint, typically a
// local stub.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// Name identifies this provider in sync state and logs.
func (c *Client) Name() string { return application.ProviderDrive }

// IsConnected reports whether a credential can be acquired right now.
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.tokens.Token(ctx)
	return err == nil
}

// Identity returns the connected account, or nil on any failure.
func (c *Client) Identity(ctx context.Context) *domain.Identity {
	resp, err := c.get(ctx, c.baseURL+"/drive/v3/about?fields=user")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var about struct {
		User struct {
			EmailAddress string `json:"emailAddress"`
			DisplayName  string `json:"displayName"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&about); err != nil {
		return nil
	}
	return &domain.Identity{Email: about.User.EmailAddress, DisplayName: about.User.DisplayName}
}

// Upload writes content to relPath under the journal root. Intermediate
// folders are found or created one component at a time, and an existing
// file at the target name is overwritten in place so repeated syncs never
// accumulate duplicates.
func (c *Client) Upload(ctx context.Context, relPath, content string) error {
	parentID, fileName, err := c.resolveParent(ctx, relPath)
	if err != nil {
		return &application.UploadError{Provider: c.Name(), Path: relPath, Err: err}
	}

	existingID, err := c.findFile(ctx, fileName, parentID)
	if err != nil {
		return &application.UploadError{Provider: c.Name(), Path: relPath, Err: err}
	}

	if err := c.multipartUpload(ctx, existingID, fileName, parentID, content); err != nil {
		return &application.UploadError{Provider: c.Name(), Path: relPath, Err: err}
	}
	return nil
}

// Download fetches a file's content by its Drive file ID.
func (c *Client) Download(ctx context.Context, fileID string) (string, error) {
	resp, err := c.get(ctx, c.baseURL+"/drive/v3/files/"+url.PathEscape(fileID)+"?alt=media")
	if err != nil {
		return "", &application.DownloadError{Provider: c.Name(), Ref: fileID, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &application.DownloadError{
			Provider: c.Name(), Ref: fileID,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &application.DownloadError{Provider: c.Name(), Ref: fileID, Err: err}
	}
	return string(data), nil
}

// ListJournalFiles walks the journal root depth-first and collects every
// entry file. Failures below the root prune that subtree and are logged;
// whatever was collected so far is still returned.
func (c *Client) ListJournalFiles(ctx context.Context) ([]ports.RemoteFile, error) {
	rootID, err := c.ensureJournalRoot(ctx)
	if err != nil {
		return nil, err
	}

	var files []ports.RemoteFile
	c.walkFolder(ctx, rootID, "", &files)
	return files, nil
}

func (c *Client) walkFolder(ctx context.Context, folderID, prefix string, files *[]ports.RemoteFile) {
	children, err := c.listChildren(ctx, folderID)
	if err != nil {
		c.logger.Warn("listing aborted mid-walk, returning partial view", "folder", prefix, "err", err)
		return
	}

	for _, child := range children {
		childPath := child.Name
		if prefix != "" {
			childPath = prefix + "/" + child.Name
		}
		switch {
		case child.MimeType == folderMIMEType:
			c.walkFolder(ctx, child.ID, childPath, files)
		case strings.HasSuffix(child.Name, domain.EntryFileExt):
			*files = append(*files, ports.RemoteFile{Ref: child.ID, Path: childPath})
		}
	}
}

// resolveParent ensures every folder on relPath exists and returns the ID
// of the file's direct parent plus the bare file name.
func (c *Client) resolveParent(ctx context.Context, relPath string) (string, string, error) {
	parentID, err := c.ensureJournalRoot(ctx)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(relPath, "/")
	fileName := parts[len(parts)-1]
	for _, folder := range parts[:len(parts)-1] {
		parentID, err = c.findOrCreateFolder(ctx, folder, parentID)
		if err != nil {
			return "", "", err
		}
	}
	return parentID, fileName, nil
}

// ensureJournalRoot finds or creates the fixed journal folder, component
// by component.
func (c *Client) ensureJournalRoot(ctx context.Context) (string, error) {
	var parentID string
	var err error
	for _, part := range strings.Split(c.root, "/") {
		parentID, err = c.findOrCreateFolder(ctx, part, parentID)
		if err != nil {
			return "", err
		}
	}
	return parentID, nil
}

// findOrCreateFolder searches for a folder by name under parentID and
// creates it only when the search comes up empty.
func (c *Client) findOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), folderMIMEType)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}

	found, err := c.searchFiles(ctx, query)
	if err != nil {
		return "", err
	}
	if len(found) > 0 {
		return found[0].ID, nil
	}

	metadata := map[string]any{"name": name, "mimeType": folderMIMEType}
	if parentID != "" {
		metadata["parents"] = []string{parentID}
	}

	body, _ := json.Marshal(metadata)
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/drive/v3/files", bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("create folder %q: unexpected status %s", name, resp.Status)
	}

	var created driveFile
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) findFile(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", escapeQuery(name), escapeQuery(parentID))
	found, err := c.searchFiles(ctx, query)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", nil
	}
	return found[0].ID, nil
}

// multipartUpload POSTs a new file or PATCHes an existing one with a
// multipart/related body of JSON metadata plus plain-text content.
func (c *Client) multipartUpload(ctx context.Context, existingID, fileName, parentID, content string) error {
	metadata := map[string]any{}
	if existingID == "" {
		metadata = map[string]any{"name": fileName, "parents": []string{parentID}}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json"}})
	if err != nil {
		return err
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return err
	}

	contentPart, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain"}})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(contentPart, content); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	uploadURL := c.baseURL + "/upload/drive/v3/files?uploadType=multipart"
	method := http.MethodPost
	if existingID != "" {
		uploadURL = c.baseURL + "/upload/drive/v3/files/" + url.PathEscape(existingID) + "?uploadType=multipart"
		method = http.MethodPatch
	}

	resp, err := c.do(ctx, method, uploadURL, &buf, `multipart/related; boundary="`+writer.Boundary()+`"`)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

type driveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

func (c *Client) searchFiles(ctx context.Context, query string) ([]driveFile, error) {
	u := c.baseURL + "/drive/v3/files?q=" + url.QueryEscape(query) + "&fields=" + url.QueryEscape("files(id,name,mimeType)")
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: unexpected status %s", resp.Status)
	}

	var list struct {
		Files []driveFile `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	return list.Files, nil
}

func (c *Client) listChildren(ctx context.Context, folderID string) ([]driveFile, error) {
	return c.searchFiles(ctx, fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID)))
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, u, nil, "")
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
