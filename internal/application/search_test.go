package application

import (
	"context"
	"testing"

	"daybook/internal/adapters/keyvalue"
	"daybook/internal/domain"
)

func seedSearchJournal(t *testing.T) *Journal {
	t.Helper()
	journal := NewJournal(keyvalue.NewMemory(), nil)
	ctx := context.Background()

	seed := map[string]domain.Entry{
		"2024-01-01": {Text: "Met Alice", Tags: []string{"work"}},
		"2024-01-02": {Text: "Gym session", Tags: []string{"health"}},
		"2024-01-03": {Text: "Gym then a work call", Tags: []string{"health", "work"}},
	}
	for key, entry := range seed {
		day, _ := domain.ParseDateKey(key)
		if err := journal.Save(ctx, day, entry); err != nil {
			t.Fatalf("Save %s: %v", key, err)
		}
	}
	return journal
}

func TestSearch(t *testing.T) {
	journal := seedSearchJournal(t)

	tests := []struct {
		name      string
		query     string
		tags      []string
		wantDates []string
	}{
		{
			name:      "tag filter only",
			query:     "",
			tags:      []string{"work"},
			wantDates: []string{"2024-01-03", "2024-01-01"},
		},
		{
			name:      "query only, case-insensitive",
			query:     "gym",
			tags:      nil,
			wantDates: []string{"2024-01-03", "2024-01-02"},
		},
		{
			name:      "query and tag intersect",
			query:     "gym",
			tags:      []string{"work"},
			wantDates: []string{"2024-01-03"},
		},
		{
			name:      "all tags must match",
			query:     "",
			tags:      []string{"health", "work"},
			wantDates: []string{"2024-01-03"},
		},
		{
			name:      "empty query and tags match everything",
			query:     "",
			tags:      nil,
			wantDates: []string{"2024-01-03", "2024-01-02", "2024-01-01"},
		},
		{
			name:      "no match",
			query:     "holiday",
			tags:      nil,
			wantDates: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := NewSearchCommand(journal, tt.query, tt.tags).Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if len(results) != len(tt.wantDates) {
				t.Fatalf("got %d results, want %d: %+v", len(results), len(tt.wantDates), results)
			}
			for i, want := range tt.wantDates {
				if got := domain.DateKey(results[i].Date); got != want {
					t.Errorf("result[%d] = %s, want %s", i, got, want)
				}
			}
		})
	}
}
