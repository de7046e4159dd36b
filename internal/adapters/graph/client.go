// Package graph implements the cloud provider contract against a
// Microsoft-Graph-style API. Files are addressed by path, so uploads and
// downloads are single requests and the server creates intermediate
// folders implicitly.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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
	DefaultBaseURL = "https://graph.microsoft.com"

	// JournalRoot is the fixed remote folder all entry files live under.
	JournalRoot = "Daybook/Journal"
)

// Client implements ports.CloudProvider over the Graph drive API.
type Client struct {
	baseURL string
	root    string
	tokens  ports.TokenSource
	http    *http.Client
	logger  *log.Logger
}

var _ ports.CloudProvider = (*Client)(nil)

// NewClient creates a Graph client using tokens for authorization. A nil
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
func (c *Client) Name() string { return application.ProviderGraph }

// IsConnected reports whether a credential can be acquired right now.
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.tokens.Token(ctx)
	return err == nil
}

// Identity returns the connected account, or nil on any failure. Personal
// accounts report their address in mail, organizational ones sometimes
// only in userPrincipalName.
func (c *Client) Identity(ctx context.Context) *domain.Identity {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1.0/me", nil, "")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var me struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
		DisplayName       string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil
	}

	email := me.Mail
	if email == "" {
		email = me.UserPrincipalName
	}
	return &domain.Identity{Email: email, DisplayName: me.DisplayName}
}

// Upload writes content to relPath under the journal root. A single PUT
// both creates and overwrites, and missing folders appear as a side
// effect.
func (c *Client) Upload(ctx context.Context, relPath, content string) error {
	u := c.contentURL(c.root + "/" + relPath)
	resp, err := c.do(ctx, http.MethodPut, u, strings.NewReader(content), "text/plain")
	if err != nil {
		return &application.UploadError{Provider: c.Name(), Path: relPath, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &application.UploadError{
			Provider: c.Name(), Path: relPath,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return nil
}

// Download fetches a file's content. The ref is the path under the
// journal root, as produced by ListJournalFiles.
func (c *Client) Download(ctx context.Context, ref string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentURL(c.root+"/"+ref), nil, "")
	if err != nil {
		return "", &application.DownloadError{Provider: c.Name(), Ref: ref, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &application.DownloadError{
			Provider: c.Name(), Ref: ref,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &application.DownloadError{Provider: c.Name(), Ref: ref, Err: err}
	}
	return string(data), nil
}

// ListJournalFiles walks the journal root depth-first via per-folder
// children listings. A failed listing prunes that subtree and is logged;
// whatever was collected so far is still returned. An empty result with
// no error also covers the case where the root does not exist yet.
func (c *Client) ListJournalFiles(ctx context.Context) ([]ports.RemoteFile, error) {
	if _, err := c.tokens.Token(ctx); err != nil {
		return nil, err
	}

	var files []ports.RemoteFile
	c.walkFolder(ctx, "", &files)
	return files, nil
}

func (c *Client) walkFolder(ctx context.Context, prefix string, files *[]ports.RemoteFile) {
	folderPath := c.root
	if prefix != "" {
		folderPath = c.root + "/" + prefix
	}

	children, err := c.listChildren(ctx, folderPath)
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
		case child.Folder != nil:
			c.walkFolder(ctx, childPath, files)
		case strings.HasSuffix(child.Name, domain.EntryFileExt):
			// Path-addressed API: the path doubles as the download ref.
			*files = append(*files, ports.RemoteFile{Ref: childPath, Path: childPath})
		}
	}
}

type driveItem struct {
	Name   string          `json:"name"`
	Folder json.RawMessage `json:"folder"`
}

func (c *Client) listChildren(ctx context.Context, folderPath string) ([]driveItem, error) {
	u := c.baseURL + "/v1.0/me/drive/root:/" + escapePath(folderPath) + ":/children"
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %q: unexpected status %s", folderPath, resp.Status)
	}

	var page struct {
		Value []driveItem `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return page.Value, nil
}

func (c *Client) contentURL(remotePath string) string {
	return c.baseURL + "/v1.0/me/drive/root:/" + escapePath(remotePath) + ":/content"
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

// escapePath escapes each path component while keeping separators, which
// the path-in-URL addressing scheme requires.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
