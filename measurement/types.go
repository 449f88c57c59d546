package measurement

import (
	"fmt"
	"time"

	"github.com/Tap30/quantcast-go/adapters"
)

// Re-export adapter types for convenience
type (
	Event          = adapters.Event
	AppInfo        = adapters.AppInfo
	Platform       = adapters.Platform
	HTTPAdapter    = adapters.HTTPAdapter
	HTTPResponse   = adapters.HTTPResponse
	StorageAdapter = adapters.StorageAdapter
	LoggerAdapter  = adapters.LoggerAdapter
	LogLevel       = adapters.LogLevel
)

const (
	DefaultAPIKeyHeader  = "X-API-Key"
	DefaultFlushInterval = 5 * time.Second
	DefaultMaxBatchSize  = 10
	DefaultMaxRetries    = 3
)

// Names of the events the client emits on its own.
const (
	EventLoad   = "load"
	EventPause  = "pause"
	EventResume = "resume"
)

// HTTPError is returned when the collector keeps answering with a non-2xx
// status after all retries.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("collector request failed with status %d", e.Status)
}

// Config configures a measurement Client.
type Config struct {
	Endpoint      string
	APIKeyHeader  string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int

	HTTPAdapter    HTTPAdapter
	StorageAdapter StorageAdapter
	LoggerAdapter  LoggerAdapter
}

// DispatcherConfig is the subset of Config the dispatcher needs once the API
// key is known.
type DispatcherConfig struct {
	Endpoint      string
	Headers       map[string]string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int
	// Backoff returns the wait before retry attempt n (0-based).
	// Nil uses exponential backoff with jitter.
	Backoff func(attempt int) time.Duration
}
