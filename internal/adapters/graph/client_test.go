package graph

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
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

// fakeGraph stores files under their full remote path and serves the
// three endpoints the client uses: content PUT/GET and children listing.
type fakeGraph struct {
	files map[string]string
}

func (f *fakeGraph) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if r.URL.Path == "/v1.0/me" {
			json.NewEncoder(w).Encode(map[string]string{
				"mail":              "pat@example.com",
				"userPrincipalName": "pat@example.onmicrosoft.com",
				"displayName":       "Pat",
			})
			return
		}

		const prefix = "/v1.0/me/drive/root:/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, prefix)

		switch {
		case strings.HasSuffix(rest, ":/content"):
			p, err := url.PathUnescape(strings.TrimSuffix(rest, ":/content"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			switch r.Method {
			case http.MethodPut:
				body, _ := io.ReadAll(r.Body)
				f.files[p] = string(body)
				w.WriteHeader(http.StatusCreated)
			case http.MethodGet:
				content, ok := f.files[p]
				if !ok {
					http.NotFound(w, r)
					return
				}
				io.WriteString(w, content)
			default:
				http.Error(w, "method", http.StatusMethodNotAllowed)
			}

		case strings.HasSuffix(rest, ":/children"):
			folder, err := url.PathUnescape(strings.TrimSuffix(rest, ":/children"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			var items []map[string]any
			seen := map[string]bool{}
			for p := range f.files {
				if !strings.HasPrefix(p, folder+"/") {
					continue
				}
				rel := strings.TrimPrefix(p, folder+"/")
				name, _, isDir := strings.Cut(rel, "/")
				if seen[name] {
					continue
				}
				seen[name] = true
				item := map[string]any{"name": name}
				if isDir {
					item["folder"] = map[string]any{}
				} else {
					item["file"] = map[string]any{}
				}
				items = append(items, item)
			}
			if len(seen) == 0 {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"value": items})

		default:
			http.NotFound(w, r)
		}
	})
}

func newTestClient(t *testing.T, fake *fakeGraph) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	client := NewClient(staticToken("test-token"), nil)
	client.baseURL = server.URL
	return client
}

func TestUploadPutsUnderJournalRoot(t *testing.T) {
	fake := &fakeGraph{files: map[string]string{}}
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "text: hi\n"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, ok := fake.files["Daybook/Journal/2024/03/15.txt"]
	if !ok {
		t.Fatalf("remote files = %v, journal path missing", fake.files)
	}
	if got != "text: hi\n" {
		t.Errorf("content = %q", got)
	}
}

func TestUploadOverwrites(t *testing.T) {
	fake := &fakeGraph{files: map[string]string{"Daybook/Journal/2024/03/15.txt": "old"}}
	client := newTestClient(t, fake)

	if err := client.Upload(context.Background(), "2024/03/15.txt", "new"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if fake.files["Daybook/Journal/2024/03/15.txt"] != "new" {
		t.Errorf("content = %q, want %q", fake.files["Daybook/Journal/2024/03/15.txt"], "new")
	}
}

func TestDownloadByPath(t *testing.T) {
	fake := &fakeGraph{files: map[string]string{"Daybook/Journal/2024/03/15.txt": "text: stored\n"}}
	client := newTestClient(t, fake)

	got, err := client.Download(context.Background(), "2024/03/15.txt")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got != "text: stored\n" {
		t.Errorf("content = %q", got)
	}
}

func TestDownloadMissingFails(t *testing.T) {
	client := newTestClient(t, &fakeGraph{files: map[string]string{}})

	_, err := client.Download(context.Background(), "2024/03/15.txt")
	var downloadErr *application.DownloadError
	if !errors.As(err, &downloadErr) {
		t.Fatalf("err = %v, want DownloadError", err)
	}
}

func TestListJournalFilesWalksTree(t *testing.T) {
	fake := &fakeGraph{files: map[string]string{
		"Daybook/Journal/2024/03/15.txt":    "a",
		"Daybook/Journal/2024/03/16.txt":    "b",
		"Daybook/Journal/2024/04/01.txt":    "c",
		"Daybook/Journal/2024/04/notes.pdf": "stray",
	}}
	client := newTestClient(t, fake)

	files, err := client.ListJournalFiles(context.Background())
	if err != nil {
		t.Fatalf("ListJournalFiles: %v", err)
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
		if f.Ref != f.Path {
			t.Errorf("ref %q != path %q", f.Ref, f.Path)
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

func TestListJournalFilesEmptyRoot(t *testing.T) {
	client := newTestClient(t, &fakeGraph{files: map[string]string{}})

	files, err := client.ListJournalFiles(context.Background())
	if err != nil {
		t.Fatalf("ListJournalFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestIdentityPrefersMail(t *testing.T) {
	client := newTestClient(t, &fakeGraph{files: map[string]string{}})

	id := client.Identity(context.Background())
	if id == nil {
		t.Fatal("Identity = nil")
	}
	if id.Email != "pat@example.com" || id.DisplayName != "Pat" {
		t.Errorf("identity = %+v", id)
	}
}

func TestCredentialFailurePropagates(t *testing.T) {
	client := NewClient(failingToken{}, nil)

	if client.IsConnected(context.Background()) {
		t.Error("IsConnected = true without credential")
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

func TestEscapePathKeepsSeparators(t *testing.T) {
	got := escapePath("Daybook/Journal/2024 q1/15.txt")
	if got != "Daybook/Journal/2024%20q1/15.txt" {
		t.Errorf("escapePath = %q", got)
	}
}
