package keyvalue

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"daybook/internal/ports"
)

// FS implements ports.KeyValue as one file per key in a flat directory.
// Key names are path-escaped so slashes in journal keys stay out of the
// directory structure. Writes go through a temp file and rename so a
// crashed write never leaves a truncated record.
type FS struct {
	root string
}

var _ ports.KeyValue = (*FS)(nil)

// OpenFS creates the root directory if needed and returns a store over it.
func OpenFS(root string) (*FS, error) {
	if strings.HasPrefix(root, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, root[1:])
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FS{root: root}, nil
}

func (f *FS) path(key string) string {
	return filepath.Join(f.root, url.PathEscape(key))
}

func (f *FS) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FS) Set(_ context.Context, key, value string) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.root, ".write-*")
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (f *FS) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (f *FS) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		key, err := url.PathUnescape(entry.Name())
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *FS) Close() error { return nil }
