package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotConnected   = errors.New("provider not connected")
	ErrSyncInProgress = errors.New("sync already in progress")
)

// StorageError represents a failure of the underlying key-value backend.
// Read paths recover from it with safe defaults; write paths surface it.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvalidPathError reports a remote path that does not name a journal
// entry file (wrong shape, or not a real calendar date).
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid entry path: %q", e.Path)
}

// UploadError represents a failed upload to a cloud provider.
type UploadError struct {
	Provider string
	Path     string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: upload %q: %v", e.Provider, e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DownloadError represents a non-success response while fetching a file.
type DownloadError struct {
	Provider string
	Ref      string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: download %q: %v", e.Provider, e.Ref, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// SyncError marks which provider and phase a full sync failed in.
type SyncError struct {
	Provider string
	Phase    string // "upload" or "download"
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s (%s phase): %v", e.Provider, e.Phase, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
