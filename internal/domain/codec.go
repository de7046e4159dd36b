package domain

import "gopkg.in/yaml.v3"

// rawEntry is the on-disk shape of an entry. Fields absent from the
// document stay at their zero values.
type rawEntry struct {
	Text any `yaml:"text"`
	Tags any `yaml:"tags"`
}

// encodedEntry is used for marshalling; empty fields are omitted so the
// serialized form stays minimal.
type encodedEntry struct {
	Text string   `yaml:"text,omitempty"`
	Tags []string `yaml:"tags,omitempty"`
}

// DecodeEntry parses a YAML blob into an Entry. It never fails: malformed
// input, a non-string text field, or a malformed tags field all degrade to
// the corresponding zero value, and non-string tag elements are dropped.
func DecodeEntry(data []byte) Entry {
	var raw rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return EmptyEntry()
	}

	entry := Entry{}
	if text, ok := raw.Text.(string); ok {
		entry.Text = text
	}
	if list, ok := raw.Tags.([]any); ok {
		for _, item := range list {
			if tag, ok := item.(string); ok {
				entry.Tags = append(entry.Tags, tag)
			}
		}
	}
	return entry
}

// EncodeEntry serializes an entry to YAML. It returns ok=false for an
// empty entry: empty entries are never persisted as records.
func EncodeEntry(entry Entry) ([]byte, bool) {
	if entry.IsEmpty() {
		return nil, false
	}
	data, err := yaml.Marshal(encodedEntry{Text: entry.Text, Tags: entry.Tags})
	if err != nil {
		// Strings and string slices always marshal.
		return nil, false
	}
	return data, true
}
