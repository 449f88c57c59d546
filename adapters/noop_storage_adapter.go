package adapters

// NoOpStorageAdapter is a storage adapter that performs no operations.
// Undelivered events are lost when the client stops.
type NoOpStorageAdapter struct{}

// Ensure NoOpStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*NoOpStorageAdapter)(nil)

// NewNoOpStorageAdapter creates a new NoOpStorageAdapter instance.
func NewNoOpStorageAdapter() *NoOpStorageAdapter {
	return &NoOpStorageAdapter{}
}

func (n *NoOpStorageAdapter) Save(events []Event) error { return nil }

func (n *NoOpStorageAdapter) Load() ([]Event, error) { return []Event{}, nil }

func (n *NoOpStorageAdapter) Clear() error { return nil }

// Close does nothing and always returns nil.
func (n *NoOpStorageAdapter) Close() error { return nil }
