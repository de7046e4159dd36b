// Package application holds the journal's use cases: the local store, the
// sync orchestrator, search, and exports. It depends only on domain types
// and ports; concrete backends and providers are injected.
package application

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"daybook/internal/domain"
	"daybook/internal/ports"
)

// Local persistence layout.
const (
	journalPrefix = "journal:"
	tagsKey       = "allTags"
	lastSyncKey   = "lastSyncTime"
	autoSyncKey   = "autoSyncEnabled"
)

// DatedEntry pairs an entry with its date.
type DatedEntry struct {
	Date  time.Time
	Entry domain.Entry
}

// Record is one exported entry: its remote-relative path and raw blob.
type Record struct {
	Path    string
	Content string
}

// Journal is the local journal store. It owns one record per non-empty
// date plus a derived tag-frequency index, all on a key-value backend.
type Journal struct {
	kv     ports.KeyValue
	logger *log.Logger
}

// NewJournal creates a store over kv. A nil logger discards output.
func NewJournal(kv ports.KeyValue, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Journal{kv: kv, logger: logger}
}

func entryKey(date time.Time) string {
	return journalPrefix + domain.DatePath(date)
}

// Load returns the entry for date. Absent records, decode trouble, and
// backend read failures all degrade to an empty entry so reads never
// block the caller; failures are logged, not surfaced.
func (j *Journal) Load(ctx context.Context, date time.Time) domain.Entry {
	raw, ok, err := j.kv.Get(ctx, entryKey(date))
	if err != nil {
		j.logger.Warn("load failed, returning empty entry", "date", domain.DateKey(date), "err", err)
		return domain.EmptyEntry()
	}
	if !ok {
		return domain.EmptyEntry()
	}
	return domain.DecodeEntry([]byte(raw))
}

// Save stores the entry for date. An empty entry deletes the record
// (idempotently); anything else is encoded and written. Either way the
// tag index is rebuilt afterwards, so once Save returns, Load and
// TagIndex reflect the new state.
func (j *Journal) Save(ctx context.Context, date time.Time, entry domain.Entry) error {
	key := entryKey(date)

	if raw, ok := domain.EncodeEntry(entry); ok {
		if err := j.kv.Set(ctx, key, string(raw)); err != nil {
			return &StorageError{Op: "set", Key: key, Err: err}
		}
	} else {
		if err := j.kv.Delete(ctx, key); err != nil {
			return &StorageError{Op: "delete", Key: key, Err: err}
		}
	}

	return j.rebuildTagIndex(ctx)
}

// EntryDates returns the date of every stored entry, in no particular
// order. Keys with malformed paths are skipped.
func (j *Journal) EntryDates(ctx context.Context) ([]time.Time, error) {
	keys, err := j.kv.Keys(ctx, journalPrefix)
	if err != nil {
		return nil, &StorageError{Op: "scan", Key: journalPrefix, Err: err}
	}

	var dates []time.Time
	for _, key := range keys {
		date, ok := domain.ParseDatePath(strings.TrimPrefix(key, journalPrefix))
		if !ok {
			j.logger.Warn("skipping malformed journal key", "key", key)
			continue
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// MonthEntries returns the non-empty entries of one month, keyed by day.
// A record that decodes to empty should not exist, but is filtered out
// defensively.
func (j *Journal) MonthEntries(ctx context.Context, year int, month time.Month) (map[int]domain.Entry, error) {
	prefix := journalPrefix + time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006/01") + "/"
	keys, err := j.kv.Keys(ctx, prefix)
	if err != nil {
		return nil, &StorageError{Op: "scan", Key: prefix, Err: err}
	}

	entries := make(map[int]domain.Entry)
	for _, key := range keys {
		date, ok := domain.ParseDatePath(strings.TrimPrefix(key, journalPrefix))
		if !ok {
			continue
		}
		entry := j.Load(ctx, date)
		if entry.IsEmpty() {
			continue
		}
		entries[date.Day()] = entry
	}
	return entries, nil
}

// TagIndex returns the persisted tag → entry-count index, or an empty map
// when it has never been built. The index is derived state: it can always
// be reproduced by rebuilding from the entries themselves.
func (j *Journal) TagIndex(ctx context.Context) (map[string]int, error) {
	raw, ok, err := j.kv.Get(ctx, tagsKey)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: tagsKey, Err: err}
	}
	index := make(map[string]int)
	if !ok {
		return index, nil
	}
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		j.logger.Warn("tag index corrupt, treating as empty", "err", err)
		return make(map[string]int), nil
	}
	return index, nil
}

// EntriesWithTag returns every entry carrying tag, newest first.
func (j *Journal) EntriesWithTag(ctx context.Context, tag string) ([]DatedEntry, error) {
	dates, err := j.EntryDates(ctx)
	if err != nil {
		return nil, err
	}

	var results []DatedEntry
	for _, date := range dates {
		entry := j.Load(ctx, date)
		if entry.HasTag(tag) {
			results = append(results, DatedEntry{Date: date, Entry: entry})
		}
	}
	sort.Slice(results, func(a, b int) bool {
		return results[a].Date.After(results[b].Date)
	})
	return results, nil
}

// ExportAll enumerates every persisted record as (remote path, raw blob).
// Only non-empty records are ever stored, so this is exactly the upload
// set for a sync.
func (j *Journal) ExportAll(ctx context.Context) ([]Record, error) {
	keys, err := j.kv.Keys(ctx, journalPrefix)
	if err != nil {
		return nil, &StorageError{Op: "scan", Key: journalPrefix, Err: err}
	}

	var records []Record
	for _, key := range keys {
		content, ok, err := j.kv.Get(ctx, key)
		if err != nil {
			return nil, &StorageError{Op: "get", Key: key, Err: err}
		}
		if !ok || content == "" {
			continue
		}
		records = append(records, Record{
			Path:    strings.TrimPrefix(key, journalPrefix) + domain.EntryFileExt,
			Content: content,
		})
	}
	return records, nil
}

// ImportRecord brings one remote file into local storage. The path must
// name a valid entry file; the content goes through the same decode,
// emptiness, and indexing rules as a local save, so importing an empty
// blob deletes the local record.
func (j *Journal) ImportRecord(ctx context.Context, path, content string) error {
	date, ok := domain.ParseRemoteFilePath(path)
	if !ok {
		return &InvalidPathError{Path: path}
	}
	return j.Save(ctx, date, domain.DecodeEntry([]byte(content)))
}

// ClearAll removes every journal record and the tag index.
func (j *Journal) ClearAll(ctx context.Context) error {
	keys, err := j.kv.Keys(ctx, journalPrefix)
	if err != nil {
		return &StorageError{Op: "scan", Key: journalPrefix, Err: err}
	}
	for _, key := range keys {
		if err := j.kv.Delete(ctx, key); err != nil {
			return &StorageError{Op: "delete", Key: key, Err: err}
		}
	}
	if err := j.kv.Delete(ctx, tagsKey); err != nil {
		return &StorageError{Op: "delete", Key: tagsKey, Err: err}
	}
	return nil
}

// LastSyncTime returns the persisted last successful sync instant, or the
// zero time when no sync has completed.
func (j *Journal) LastSyncTime(ctx context.Context) time.Time {
	raw, ok, err := j.kv.Get(ctx, lastSyncKey)
	if err != nil || !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetLastSyncTime persists the last successful sync instant.
func (j *Journal) SetLastSyncTime(ctx context.Context, t time.Time) error {
	if err := j.kv.Set(ctx, lastSyncKey, t.UTC().Format(time.RFC3339)); err != nil {
		return &StorageError{Op: "set", Key: lastSyncKey, Err: err}
	}
	return nil
}

// AutoSyncEnabled reports the persisted auto-sync preference (off by
// default).
func (j *Journal) AutoSyncEnabled(ctx context.Context) bool {
	raw, ok, err := j.kv.Get(ctx, autoSyncKey)
	return err == nil && ok && raw == "true"
}

// SetAutoSyncEnabled persists the auto-sync preference.
func (j *Journal) SetAutoSyncEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := j.kv.Set(ctx, autoSyncKey, value); err != nil {
		return &StorageError{Op: "set", Key: autoSyncKey, Err: err}
	}
	return nil
}

// rebuildTagIndex recomputes the full index by scanning every entry.
// A full O(N) rebuild rather than an incremental delta: it can never
// drift from the underlying entries.
func (j *Journal) rebuildTagIndex(ctx context.Context) error {
	dates, err := j.EntryDates(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, date := range dates {
		for _, tag := range j.Load(ctx, date).Tags {
			counts[tag]++
		}
	}

	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	if err := j.kv.Set(ctx, tagsKey, string(raw)); err != nil {
		return &StorageError{Op: "set", Key: tagsKey, Err: err}
	}
	return nil
}
