// Package config reads the process environment into the settings the
// binaries share.
package config

import "os"

const (
	// DefaultStorePath is where the sqlite journal store lives.
	DefaultStorePath = "~/.daybook/journal.db"

	// DefaultDataDir backs the file store when DAYBOOK_STORE=fs.
	DefaultDataDir = "~/.daybook/data"
)

// Config holds everything the binaries need to wire the journal.
type Config struct {
	// Store selects the local backend: "sqlite" (default) or "fs".
	Store string

	// StorePath is the sqlite database file.
	StorePath string

	// DataDir is the directory for the fs backend.
	DataDir string

	// DriveToken and GraphToken name the env vars holding provider
	// credentials. An empty value means the provider is not configured.
	DriveToken string
	GraphToken string

	// DriveBaseURL and GraphBaseURL override the provider endpoints,
	// mainly for talking to a local stub.
	DriveBaseURL string
	GraphBaseURL string
}

// FromEnv builds a Config from DAYBOOK_* environment variables.
func FromEnv() Config {
	return Config{
		Store:        envOr("DAYBOOK_STORE", "sqlite"),
		StorePath:    envOr("DAYBOOK_DB", DefaultStorePath),
		DataDir:      envOr("DAYBOOK_DATA", DefaultDataDir),
		DriveToken:   os.Getenv("DAYBOOK_DRIVE_TOKEN"),
		GraphToken:   os.Getenv("DAYBOOK_GRAPH_TOKEN"),
		DriveBaseURL: os.Getenv("DAYBOOK_DRIVE_URL"),
		GraphBaseURL: os.Getenv("DAYBOOK_GRAPH_URL"),
	}
}

func envOr(name, fallback string) string {
	if env := os.Getenv(name); env != "" {
		return env
	}
	return fallback
}
