package adapters

// StorageAdapter is an interface for event persistence.
// Events that could not be delivered are saved here and reloaded on the next start.
type StorageAdapter interface {
	// Save replaces the persisted events with events.
	Save(events []Event) error

	// Load retrieves persisted events. A missing store yields an empty slice.
	Load() ([]Event, error)

	// Clear removes all persisted events.
	Clear() error
}
