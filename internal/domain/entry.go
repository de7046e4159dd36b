package domain

import "strings"

// Entry is one day's journal content: free text plus an ordered tag set.
type Entry struct {
	Text string
	Tags []string
}

// EmptyEntry returns an entry with no text and no tags.
func EmptyEntry() Entry {
	return Entry{}
}

// IsEmpty reports whether the entry has neither text nor tags.
// Whitespace-only text counts as empty.
func (e Entry) IsEmpty() bool {
	return strings.TrimSpace(e.Text) == "" && len(e.Tags) == 0
}

// HasTag reports whether tag is present in the entry's tag set.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Equal reports whether two entries have identical text and tag sequences.
func (e Entry) Equal(other Entry) bool {
	if e.Text != other.Text || len(e.Tags) != len(other.Tags) {
		return false
	}
	for i := range e.Tags {
		if e.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// NormalizeTags lowercases tags, trims whitespace, and removes duplicates
// and blanks while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
