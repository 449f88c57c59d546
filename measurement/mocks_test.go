package measurement

import (
	"context"
	"sync"
	"time"
)

type mockHTTPAdapter struct {
	mu       sync.Mutex
	calls    int
	err      error
	statuses []int // status per call; the last one repeats
	batches  [][]Event
	headers  map[string]string
}

func (m *mockHTTPAdapter) Send(ctx context.Context, endpoint string, events []Event, headers map[string]string) (*HTTPResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.headers = headers
	m.batches = append(m.batches, append([]Event(nil), events...))
	if m.err != nil {
		return nil, m.err
	}
	status := 200
	if len(m.statuses) > 0 {
		idx := min(m.calls-1, len(m.statuses)-1)
		status = m.statuses[idx]
	}
	return &HTTPResponse{Status: status, OK: status >= 200 && status < 300}, nil
}

func (m *mockHTTPAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockHTTPAdapter) Sent() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []Event
	for _, b := range m.batches {
		all = append(all, b...)
	}
	return all
}

type mockStorageAdapter struct {
	mu      sync.Mutex
	saved   []Event
	loaded  []Event
	cleared int
	err     error
}

func (m *mockStorageAdapter) Save(events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append([]Event(nil), events...)
	return nil
}

func (m *mockStorageAdapter) Load() ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.loaded, nil
}

func (m *mockStorageAdapter) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	return nil
}

func (m *mockStorageAdapter) Saved() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

func noBackoff(int) time.Duration { return 0 }

// waitFor polls cond until it holds or a second passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
