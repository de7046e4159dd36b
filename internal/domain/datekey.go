package domain

import (
	"regexp"
	"time"
)

// Dates are exchanged in two equivalent string forms. The canonical key
// (2024-03-05) is what callers and exports use; the hierarchical path
// (2024/03/05) is the storage key suffix and the remote file path stem.
const (
	keyLayout  = "2006-01-02"
	pathLayout = "2006/01/02"

	// EntryFileExt is the extension of synced entry files.
	EntryFileExt = ".txt"
)

var remotePathPattern = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})\.txt$`)

// DateKey formats a date as its canonical YYYY-MM-DD key.
func DateKey(date time.Time) string {
	return date.Format(keyLayout)
}

// DatePath formats a date as its hierarchical YYYY/MM/DD path.
func DatePath(date time.Time) string {
	return date.Format(pathLayout)
}

// RemoteFilePath returns the relative remote path for a date's entry file.
func RemoteFilePath(date time.Time) string {
	return DatePath(date) + EntryFileExt
}

// ParseDateKey parses a canonical YYYY-MM-DD key. Calendar validity is
// enforced: "2024-13-40" yields ok=false rather than an overflowed date.
func ParseDateKey(key string) (time.Time, bool) {
	date, err := time.Parse(keyLayout, key)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// ParseDatePath parses a hierarchical YYYY/MM/DD path.
func ParseDatePath(path string) (time.Time, bool) {
	date, err := time.Parse(pathLayout, path)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// ParseRemoteFilePath parses a relative remote entry path such as
// "2024/03/05.txt". The path must match the digit pattern and name a real
// calendar date.
func ParseRemoteFilePath(path string) (time.Time, bool) {
	if !remotePathPattern.MatchString(path) {
		return time.Time{}, false
	}
	return ParseDatePath(path[:len(path)-len(EntryFileExt)])
}
