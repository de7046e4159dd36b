package domain

import (
	"testing"
	"time"
)

func TestDateKeyBijection(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), // leap day
		time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, date := range dates {
		key := DateKey(date)
		got, ok := ParseDateKey(key)
		if !ok {
			t.Fatalf("ParseDateKey(%q) failed", key)
		}
		if !got.Equal(date) {
			t.Errorf("key round trip: got %v, want %v", got, date)
		}

		path := DatePath(date)
		got, ok = ParseDatePath(path)
		if !ok {
			t.Fatalf("ParseDatePath(%q) failed", path)
		}
		if !got.Equal(date) {
			t.Errorf("path round trip: got %v, want %v", got, date)
		}
	}
}

func TestParseDateKeyRejectsMalformed(t *testing.T) {
	keys := []string{
		"not-a-date",
		"2024-13-40",
		"2024-00-01",
		"2024-02-30",
		"2024-3-5",
		"2024/03/05",
		"",
	}

	for _, key := range keys {
		if _, ok := ParseDateKey(key); ok {
			t.Errorf("ParseDateKey(%q) = ok, want failure", key)
		}
	}
}

func TestParseRemoteFilePath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{path: "2024/03/05.txt", want: "2024-03-05", wantOK: true},
		{path: "2024/12/31.txt", want: "2024-12-31", wantOK: true},
		// Matches the digit pattern but is not a calendar date.
		{path: "2024/13/01.txt", wantOK: false},
		{path: "2024/02/30.txt", wantOK: false},
		{path: "2024/03/05.md", wantOK: false},
		{path: "03/05.txt", wantOK: false},
		{path: "journal/2024/03/05.txt", wantOK: false},
		{path: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			date, ok := ParseRemoteFilePath(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ParseRemoteFilePath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && DateKey(date) != tt.want {
				t.Errorf("ParseRemoteFilePath(%q) = %s, want %s", tt.path, DateKey(date), tt.want)
			}
		})
	}
}

func TestRemoteFilePath(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := RemoteFilePath(date); got != "2024/03/05.txt" {
		t.Errorf("RemoteFilePath = %q, want 2024/03/05.txt", got)
	}
}
