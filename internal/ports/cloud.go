package ports

import (
	"context"

	"daybook/internal/domain"
)

// RemoteFile is one entry file found under a provider's journal root.
type RemoteFile struct {
	// Ref is the provider-specific download reference: a file ID for
	// folder-addressed providers, the relative path for path-addressed ones.
	Ref string

	// Path is the file's path relative to the journal root, e.g.
	// "2024/03/05.txt".
	Path string
}

// CloudProvider defines the uniform contract over a hierarchical-folder
// cloud file API. Implementations never cache listings.
type CloudProvider interface {
	// Name identifies the provider in logs and sync state.
	Name() string

	// IsConnected reports whether a credential can currently be acquired.
	// All failures yield false; this never returns an error.
	IsConnected(ctx context.Context) bool

	// Identity returns the connected account, or nil on any failure.
	Identity(ctx context.Context) *domain.Identity

	// Upload writes content to relPath under the journal root, creating
	// intermediate folders as needed and overwriting an existing file in
	// place rather than accumulating duplicates.
	Upload(ctx context.Context, relPath, content string) error

	// Download fetches the content of the file identified by ref.
	Download(ctx context.Context, ref string) (string, error)

	// ListJournalFiles walks the journal root depth-first and returns every
	// entry file found. A failure partway through the walk yields whatever
	// was collected so far; callers must treat the result as possibly
	// incomplete, never as proof of absence.
	ListJournalFiles(ctx context.Context) ([]RemoteFile, error)
}
