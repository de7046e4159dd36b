package keyvalue

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"daybook/internal/ports"
)

// Every backend must satisfy the same contract; run the suite against each.
func TestBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) ports.KeyValue{
		"memory": func(t *testing.T) ports.KeyValue {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) ports.KeyValue {
			store, err := OpenSQLite(filepath.Join(t.TempDir(), "daybook.db"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		},
		"fs": func(t *testing.T) ports.KeyValue {
			store, err := OpenFS(t.TempDir())
			if err != nil {
				t.Fatalf("OpenFS: %v", err)
			}
			return store
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("get absent", func(t *testing.T) {
				store := open(t)
				_, ok, err := store.Get(context.Background(), "missing")
				if err != nil {
					t.Fatalf("Get: %v", err)
				}
				if ok {
					t.Error("expected ok=false for absent key")
				}
			})

			t.Run("set get overwrite", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				if err := store.Set(ctx, "journal:2024/03/05", "text: a\n"); err != nil {
					t.Fatalf("Set: %v", err)
				}
				if err := store.Set(ctx, "journal:2024/03/05", "text: b\n"); err != nil {
					t.Fatalf("Set overwrite: %v", err)
				}

				value, ok, err := store.Get(ctx, "journal:2024/03/05")
				if err != nil || !ok {
					t.Fatalf("Get: ok=%v err=%v", ok, err)
				}
				if value != "text: b\n" {
					t.Errorf("got %q, want overwritten value", value)
				}
			})

			t.Run("delete idempotent", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				if err := store.Set(ctx, "k", "v"); err != nil {
					t.Fatalf("Set: %v", err)
				}
				if err := store.Delete(ctx, "k"); err != nil {
					t.Fatalf("Delete: %v", err)
				}
				if err := store.Delete(ctx, "k"); err != nil {
					t.Errorf("second Delete should not fail: %v", err)
				}
				if _, ok, _ := store.Get(ctx, "k"); ok {
					t.Error("key still present after delete")
				}
			})

			t.Run("prefix scan", func(t *testing.T) {
				store := open(t)
				ctx := context.Background()

				seed := map[string]string{
					"journal:2024/03/05": "a",
					"journal:2024/03/06": "b",
					"journal:2024/04/01": "c",
					"allTags":            "{}",
					"lastSyncTime":       "2024-03-05T10:00:00Z",
				}
				for key, value := range seed {
					if err := store.Set(ctx, key, value); err != nil {
						t.Fatalf("Set %q: %v", key, err)
					}
				}

				keys, err := store.Keys(ctx, "journal:2024/03/")
				if err != nil {
					t.Fatalf("Keys: %v", err)
				}
				want := []string{"journal:2024/03/05", "journal:2024/03/06"}
				if !reflect.DeepEqual(keys, want) {
					t.Errorf("Keys = %v, want %v", keys, want)
				}

				keys, err = store.Keys(ctx, "journal:")
				if err != nil {
					t.Fatalf("Keys: %v", err)
				}
				if len(keys) != 3 {
					t.Errorf("expected 3 journal keys, got %v", keys)
				}
			})
		})
	}
}
