package adapters

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageAdapter_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	adapter := NewFileStorageAdapter(path)
	events := []Event{
		{Name: "load", SessionID: "s1"},
		{Name: "Viewed Home Screen", SessionID: "s1", Labels: []string{"a"}},
	}

	if err := adapter.Save(events); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded) != 2 || loaded[0].Name != "load" || loaded[1].Name != "Viewed Home Screen" {
		t.Fatalf("loaded events do not match saved events: %+v", loaded)
	}
	if len(loaded[1].Labels) != 1 || loaded[1].Labels[0] != "a" {
		t.Fatalf("expected labels to round-trip, got %v", loaded[1].Labels)
	}
}

func TestFileStorageAdapter_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "events.json")
	adapter := NewFileStorageAdapter(path)

	if err := adapter.Save([]Event{{Name: "test"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestFileStorageAdapter_LoadNonExistent(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "missing.json"))
	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("expected no error for nonexistent file: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("expected empty slice for nonexistent file")
	}
}

func TestFileStorageAdapter_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.json")
	adapter := NewFileStorageAdapter(path)
	if err := adapter.Save([]Event{{Name: "test"}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := adapter.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be deleted")
	}

	t.Run("should not fail when file is already gone", func(t *testing.T) {
		if err := adapter.Clear(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestFileStorageAdapter_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(path, []byte("invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileStorageAdapter(path)
	if _, err := adapter.Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNoOpStorageAdapter(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	if err := adapter.Save([]Event{{Name: "test"}}); err != nil {
		t.Errorf("Save should always return nil, got: %v", err)
	}

	events, err := adapter.Load()
	if err != nil {
		t.Errorf("Load should return nil error, got: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("Load should return empty non-nil slice, got %v", events)
	}

	if err := adapter.Clear(); err != nil {
		t.Errorf("Clear should always return nil, got: %v", err)
	}
	if err := adapter.Close(); err != nil {
		t.Errorf("Close should always return nil, got: %v", err)
	}
}
