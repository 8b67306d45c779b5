package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orderflow/engine/store"
)

func TestFileStore_SaveLoad(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	record := store.Record{
		"order_id": "ORD001",
		"status":   "CREATED",
		"total":    float64(120),
		"items":    []any{"laptop", "mouse"},
	}

	if err := s.Save(ctx, "order_ORD001", record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx, "order_ORD001")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded["order_id"] != "ORD001" {
		t.Errorf("loaded[order_id] = %v, want %q", loaded["order_id"], "ORD001")
	}
	if loaded["status"] != "CREATED" {
		t.Errorf("loaded[status] = %v, want %q", loaded["status"], "CREATED")
	}
	// JSON numbers decode as float64.
	if loaded["total"] != float64(120) {
		t.Errorf("loaded[total] = %v, want 120", loaded["total"])
	}
	items, ok := loaded["items"].([]any)
	if !ok || len(items) != 2 || items[0] != "laptop" || items[1] != "mouse" {
		t.Errorf("loaded[items] = %v, want [laptop mouse]", loaded["items"])
	}
}

func TestFileStore_Save_WritesJSONFile(t *testing.T) {
	root := t.TempDir()
	s := store.NewFileStore(root)

	if err := s.Save(context.Background(), "order_ORD001", store.Record{"status": "CREATED"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "order_ORD001.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"status": "CREATED"`) {
		t.Errorf("file content = %q, want indented JSON with status field", string(data))
	}
}

func TestFileStore_Save_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "state")
	s := store.NewFileStore(root)

	if err := s.Save(context.Background(), "k", store.Record{"v": 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "k.json")); err != nil {
		t.Errorf("Stat() error = %v, want record file under created root", err)
	}
}

func TestFileStore_Load_KeyNotFound(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	_, err := s.Load(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrKeyNotFound)
	}
}

func TestFileStore_Load_CorruptRecord(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad.json"), []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s := store.NewFileStore(root)
	_, err := s.Load(context.Background(), "bad")
	if !errors.Is(err, store.ErrLoadFailed) {
		t.Errorf("Load() error = %v, want %v", err, store.ErrLoadFailed)
	}
}

func TestFileStore_Delete(t *testing.T) {
	root := t.TempDir()
	s := store.NewFileStore(root)
	ctx := context.Background()

	if err := s.Save(ctx, "k", store.Record{"v": 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	existed, err := s.Delete(ctx, "k")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !existed {
		t.Error("Delete() existed = false, want true")
	}
	if _, err := os.Stat(filepath.Join(root, "k.json")); !os.IsNotExist(err) {
		t.Error("file should not exist after Delete")
	}
}

func TestFileStore_Delete_NonExistent(t *testing.T) {
	s := store.NewFileStore(t.TempDir())

	existed, err := s.Delete(context.Background(), "nonexistent")
	if err != nil {
		t.Errorf("Delete() error = %v, want nil for missing key", err)
	}
	if existed {
		t.Error("Delete() existed = true for missing key, want false")
	}
}

func TestFileStore_Keys_MissingRoot(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	keys, err := s.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() returned %d keys, want 0", len(keys))
	}
}

func TestFileStore_Keys_StripsExtension(t *testing.T) {
	root := t.TempDir()
	s := store.NewFileStore(root)
	ctx := context.Background()

	for _, key := range []string{"order_B", "order_A"} {
		if err := s.Save(ctx, key, store.Record{}); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	// Non-record files are ignored.
	if err := os.WriteFile(filepath.Join(root, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".hidden.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}

	want := []string{"order_A", "order_B"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i, key := range keys {
		if key != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, key, want[i])
		}
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	ctx := context.Background()

	original := map[string]store.Record{
		"order_ORD001": {"status": "CREATED", "customer_id": "CUST123"},
		"order_ORD002": {"status": "SHIPPED", "customer_id": "CUST456"},
	}

	for key, record := range original {
		if err := s.Save(ctx, key, record); err != nil {
			t.Fatalf("Save(%q) error = %v", key, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != len(original) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(original))
	}

	for _, key := range keys {
		loaded, err := s.Load(ctx, key)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", key, err)
		}
		want := original[key]
		for field, value := range want {
			if loaded[field] != value {
				t.Errorf("key %q field %q = %v, want %v", key, field, loaded[field], value)
			}
		}
	}
}
