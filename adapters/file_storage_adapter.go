package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorageAdapter stores pending events as a JSON array in a single file.
type FileStorageAdapter struct {
	path string
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a FileStorageAdapter writing to path.
func NewFileStorageAdapter(path string) *FileStorageAdapter {
	return &FileStorageAdapter{path: path}
}

// Save writes events to the file, creating parent directories as needed.
func (f *FileStorageAdapter) Save(events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
	}
	return os.WriteFile(f.path, data, 0o644)
}

// Load reads events from the file.
// Returns empty slice if the file doesn't exist.
func (f *FileStorageAdapter) Load() ([]Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return events, nil
}

// Clear removes the storage file. Clearing a missing file is not an error.
func (f *FileStorageAdapter) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
