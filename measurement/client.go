package measurement

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	quantcast "github.com/Tap30/quantcast-go"
	"github.com/Tap30/quantcast-go/adapters"
)

var goPlatform = &Platform{Type: "go"}

// Client is a Quantcast measurement client that batches events and posts
// them to a collector endpoint.
type Client struct {
	config     Config
	logger     LoggerAdapter
	dispatcher *Dispatcher
	session    *session
	backoff    func(attempt int) time.Duration

	mu      sync.RWMutex
	started bool
	app     *AppInfo
	labels  []string
}

// Ensure Client implements quantcast.VendorClient interface
var _ quantcast.VendorClient = (*Client)(nil)

// NewClient validates config and fills in defaults. Nothing is sent until
// Start is called.
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, errors.New("endpoint must be provided in config")
	}
	if config.HTTPAdapter == nil || config.StorageAdapter == nil {
		return nil, errors.New("both HTTPAdapter and StorageAdapter must be provided in config")
	}

	if config.APIKeyHeader == "" {
		config.APIKeyHeader = DefaultAPIKeyHeader
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultFlushInterval
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = DefaultMaxBatchSize
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	logger := config.LoggerAdapter
	if logger == nil {
		logger = adapters.NewZapLoggerAdapter(nil, adapters.LogLevelWarn)
	}

	return &Client{
		config:  config,
		logger:  logger,
		session: newSession(),
	}, nil
}

// Start begins measurement for apiKey and records a load event. Calling it
// again after a successful start is a no-op.
func (c *Client) Start(app *quantcast.Application, apiKey string, userIdentifier *string, labels []string) error {
	if apiKey == "" {
		return errors.New("apiKey must not be empty")
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		c.logger.Debug("Start called on a running client, ignoring")
		return nil
	}

	dispatcher := NewDispatcher(DispatcherConfig{
		Endpoint:      c.config.Endpoint,
		Headers:       map[string]string{c.config.APIKeyHeader: apiKey},
		FlushInterval: c.config.FlushInterval,
		MaxBatchSize:  c.config.MaxBatchSize,
		MaxRetries:    c.config.MaxRetries,
		Backoff:       c.backoff,
	}, c.config.HTTPAdapter, c.config.StorageAdapter)
	dispatcher.SetLoggerAdapter(c.logger)
	if err := dispatcher.Start(); err != nil {
		c.mu.Unlock()
		return err
	}

	c.dispatcher = dispatcher
	c.app = appInfo(app)
	c.labels = append([]string(nil), labels...)
	c.started = true
	c.mu.Unlock()

	if userIdentifier != nil {
		c.RecordUserIdentifier(*userIdentifier)
	}

	c.logger.Info("Measurement started, session %s", c.session.ID())
	c.enqueue(EventLoad)
	return nil
}

// EnableLogging switches the logger between debug and warn when it supports
// runtime level changes.
func (c *Client) EnableLogging(enabled bool) {
	setter, ok := c.logger.(adapters.LevelSetter)
	if !ok {
		return
	}
	if enabled {
		setter.SetLevel(adapters.LogLevelDebug)
	} else {
		setter.SetLevel(adapters.LogLevelWarn)
	}
}

// RecordUserIdentifier attaches a hash of userID to subsequent events. An
// empty userID logs the user out.
func (c *Client) RecordUserIdentifier(userID string) {
	c.session.SetUser(userID)
	c.logger.Debug("User identifier recorded")
}

// LogEvent records a named event. Events logged before Start are dropped.
func (c *Client) LogEvent(name string) {
	c.enqueue(name)
}

func (c *Client) ActivityStart(activity *quantcast.Activity) {
	if c.session.Foreground() {
		c.logger.Debug("Session resumed, new session %s", c.session.ID())
		c.enqueue(EventResume)
	}
}

func (c *Client) ActivityStop() {
	if c.session.Background() {
		c.logger.Debug("Session paused")
		c.enqueue(EventPause)
	}
}

// SessionID returns the current session id.
func (c *Client) SessionID() string {
	return c.session.ID()
}

func (c *Client) Flush() {
	dispatcher, ok := c.running()
	if !ok {
		c.logger.Warn("Flush called before Start")
		return
	}
	dispatcher.Flush()
}

// Dispose flushes pending events, persists what could not be sent and stops
// the client.
func (c *Client) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.logger.Info("Disposing client")
	c.started = false
	return c.dispatcher.Stop()
}

// DisposeWithoutFlush stops the client and persists pending events without
// sending them.
func (c *Client) DisposeWithoutFlush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.logger.Info("Disposing client without flush")
	c.started = false
	return c.dispatcher.StopWithoutFlush()
}

func (c *Client) running() (*Dispatcher, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dispatcher, c.started
}

func (c *Client) enqueue(name string) {
	c.mu.RLock()
	started, dispatcher, app, labels := c.started, c.dispatcher, c.app, c.labels
	c.mu.RUnlock()

	if !started {
		c.logger.Warn("Dropping event %q, client not started", name)
		return
	}
	if name == "" {
		c.logger.Warn("Dropping event with empty name")
		return
	}

	c.logger.Debug("Logging event: %s", name)
	dispatcher.Enqueue(Event{
		ID:        uuid.NewString(),
		Name:      name,
		SessionID: c.session.ID(),
		UserHash:  c.session.UserHash(),
		Labels:    labels,
		IssuedAt:  time.Now().UnixMilli(),
		App:       app,
		Platform:  goPlatform,
	})
}

func appInfo(app *quantcast.Application) *AppInfo {
	if app == nil {
		return nil
	}
	return &AppInfo{
		Name:        app.Name,
		Version:     app.Version,
		PackageName: app.PackageName,
	}
}
