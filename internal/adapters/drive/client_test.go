package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"testing"

	"daybook/internal/application"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) Token(ctx context.Context) (string, error) {
	return "", errors.New("no credential")
}

// fakeDrive is an in-memory Drive v3 lookalike: items have an ID, a name,
// a MIME type, a parent and optional content.
type fakeDrive struct {
	items  map[string]*fakeItem
	nextID int
}

type fakeItem struct {
	id      string
	name    string
	mime    string
	parent  string
	content string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{items: map[string]*fakeItem{}}
}

func (f *fakeDrive) add(name, mimeType, parent, content string) *fakeItem {
	f.nextID++
	item := &fakeItem{
		id:      fmt.Sprintf("id-%d", f.nextID),
		name:    name,
		mime:    mimeType,
		parent:  parent,
		content: content,
	}
	f.items[item.id] = item
	return item
}

var (
	nameRe   = regexp.MustCompile(`name='([^']*)'`)
	parentRe = regexp.MustCompile(`'([^']*)' in parents`)
	folderRe = regexp.MustCompile(`mimeType='([^']*)'`)
)

func (f *fakeDrive) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /drive/v3/about", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"emailAddress": "pat@example.com", "displayName": "Pat"},
		})
	})

	mux.HandleFunc("GET /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		var name, parent, mimeType string
		if m := nameRe.FindStringSubmatch(query); m != nil {
			name = m[1]
		}
		if m := parentRe.FindStringSubmatch(query); m != nil {
			parent = m[1]
		}
		if m := folderRe.FindStringSubmatch(query); m != nil {
			mimeType = m[1]
		}

		var files []map[string]string
		for _, item := range f.items {
			if name != "" && item.name != name {
				continue
			}
			if item.parent != parent {
				continue
			}
			if mimeType != "" && item.mime != mimeType {
				continue
			}
			files = append(files, map[string]string{"id": item.id, "name": item.name, "mimeType": item.mime})
		}
		json.NewEncoder(w).Encode(map[string]any{"files": files})
	})

	mux.HandleFunc("GET /drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, ok := f.items[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, item.content)
	})

	mux.HandleFunc("POST /drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		var metadata struct {
			Name     string   `json:"name"`
			MimeType string   `json:"mimeType"`
			Parents  []string `json:"parents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&metadata); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		parent := ""
		if len(metadata.Parents) > 0 {
			parent = metadata.Parents[0]
		}
		item := f.add(metadata.Name, metadata.MimeType, parent, "")
		json.NewEncoder(w).Encode(map[string]string{"id": item.id})
	})

	mux.HandleFunc("POST /upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		metadata, content, err := readMultipart(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		parent := ""
		if len(metadata.Parents) > 0 {
			parent = metadata.Parents[0]
		}
		item := f.add(metadata.Name, "text/plain", parent, content)
		json.NewEncoder(w).Encode(map[string]string{"id": item.id})
	})

	mux.HandleFunc("PATCH /upload/drive/v3/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, ok := f.items[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, content, err := readMultipart(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		item.content = content
		json.NewEncoder(w).Encode(map[string]string{"id": item.id})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

type uploadMetadata struct {
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
}

func readMultipart(r *http.Request) (uploadMetadata, string, error) {
	var metadata uploadMetadata
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return metadata, "", err
	}
	reader := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := reader.NextPart()
	if err != nil {
		return metadata, "", err
	}
	if err := json.NewDecoder(metaPart).Decode(&metadata); err != nil {
		return metadata, "", err
	}

	contentPart, err := reader.NextPart()
	if err != nil {
		return metadata, "", err
	}
	data, err := io.ReadAll(contentPart)
	if err != nil {
		return metadata, "", err
	}
	return metadata, string(data), nil
}

// pathOf reconstructs an item's path relative to the journal root so
// tests can assert on remote layout instead of opaque IDs.
func (f *fakeDrive) pathOf(item *fakeItem) string {
	parts := []string{item.name}
	for parent := item.parent; parent != ""; parent = f.items[parent].parent {
		parts = append([]string{f.items[parent].name}, parts...)
	}
	return strings.Join(parts, "/")
}

func newTestClient(t *testing.T, fake *fakeDrive) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	client := NewClient(staticToken("test-token"), nil)
	client.baseURL = server.URL
	return client
}

func TestUploadCreatesFoldersAndFile(t *testing.T) {
	fake := newFakeDrive()
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "text: hi\n"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	var found bool
	for _, item := range fake.items {
		if item.name == "15.txt" {
			found = true
			if got := fake.pathOf(item); got != "Daybook/Journal/2024/03/15.txt" {
				t.Errorf("file path = %q", got)
			}
			if item.content != "text: hi\n" {
				t.Errorf("content = %q", item.content)
			}
		}
	}
	if !found {
		t.Fatal("uploaded file not present on remote")
	}
}

func TestUploadOverwritesExistingFile(t *testing.T) {
	fake := newFakeDrive()
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "first"); err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	if err := client.Upload(context.Background(), "2024/03/15.txt", "second"); err != nil {
		t.Fatalf("second Upload: %v", err)
	}

	var copies []*fakeItem
	for _, item := range fake.items {
		if item.name == "15.txt" {
			copies = append(copies, item)
		}
	}
	if len(copies) != 1 {
		t.Fatalf("want exactly one remote file, got %d", len(copies))
	}
	if copies[0].content != "second" {
		t.Errorf("content = %q, want %q", copies[0].content, "second")
	}
}

func TestUploadReusesExistingFolders(t *testing.T) {
	fake := newFakeDrive()
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "a"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := client.Upload(context.Background(), "2024/03/16.txt", "b"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	var folders int
	for _, item := range fake.items {
		if item.mime == folderMIMEType {
			folders++
		}
	}
	// Daybook, Journal, 2024, 03: the second upload must not duplicate any.
	if folders != 4 {
		t.Errorf("folder count = %d, want 4", folders)
	}
}

func TestDownloadReturnsContent(t *testing.T) {
	fake := newFakeDrive()
	file := fake.add("15.txt", "text/plain", "", "text: stored\n")
	client := newTestClient(t, fake)

	got, err := client.Download(context.Background(), file.id)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got != "text: stored\n" {
		t.Errorf("content = %q", got)
	}
}

func TestDownloadUnknownIDFails(t *testing.T) {
	client := newTestClient(t, newFakeDrive())

	_, err := client.Download(context.Background(), "missing")
	var downloadErr *application.DownloadError
	if !errors.As(err, &downloadErr) {
		t.Fatalf("err = %v, want DownloadError", err)
	}
	if downloadErr.Ref != "missing" {
		t.Errorf("Ref = %q", downloadErr.Ref)
	}
}

func TestListJournalFilesWalksTree(t *testing.T) {
	fake := newFakeDrive()
	client := newTestClient(t, fake)

	for _, rel := range []string{"2024/03/15.txt", "2024/03/16.txt", "2024/04/01.txt"} {
		if err := client.Upload(context.Background(), rel, "x"); err != nil {
			t.Fatalf("Upload %s: %v", rel, err)
		}
	}

	files, err := client.ListJournalFiles(context.Background())
	if err != nil {
		t.Fatalf("ListJournalFiles: %v", err)
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
		if f.Ref == "" {
			t.Errorf("file %s has empty ref", f.Path)
		}
	}
	sort.Strings(paths)
	want := []string{"2024/03/15.txt", "2024/03/16.txt", "2024/04/01.txt"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestListJournalFilesIgnoresForeignFiles(t *testing.T) {
	fake := newFakeDrive()
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "x"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	// A stray non-entry file inside the journal tree.
	for _, item := range fake.items {
		if item.name == "03" {
			fake.add("notes.pdf", "application/pdf", item.id, "binary")
		}
	}

	files, err := client.ListJournalFiles(context.Background())
	if err != nil {
		t.Fatalf("ListJournalFiles: %v", err)
	}
	if len(files) != 1 || files[0].Path != "2024/03/15.txt" {
		t.Errorf("files = %v, want just the entry file", files)
	}
}

func TestCredentialFailurePropagates(t *testing.T) {
	client := NewClient(failingToken{}, nil)

	if client.IsConnected(context.Background()) {
		t.Error("IsConnected = true without credential")
	}
	if id := client.Identity(context.Background()); id != nil {
		t.Errorf("Identity = %v, want nil", id)
	}
	if _, err := client.ListJournalFiles(context.Background()); err == nil {
		t.Error("ListJournalFiles succeeded without credential")
	}

	err := client.Upload(context.Background(), "2024/03/15.txt", "x")
	var uploadErr *application.UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want UploadError", err)
	}
}

func TestQueryEscaping(t *testing.T) {
	if got := escapeQuery("o'brien"); got != `o\'brien` {
		t.Errorf("escapeQuery = %q", got)
	}
	// Query strings must survive URL encoding intact.
	q := url.QueryEscape("name='15.txt'")
	if decoded, _ := url.QueryUnescape(q); decoded != "name='15.txt'" {
		t.Errorf("round trip = %q", decoded)
	}
}
