package quantcast

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Tap30/quantcast-go/adapters"
)

// Key is the name the host uses for this destination in its settings blob.
const Key = "Quantcast"

const viewedEventFormat = "Viewed %s Screen"

// DestinationConfig configures a Destination.
type DestinationConfig struct {
	// Vendor receives every forwarded call. Required.
	Vendor VendorClient
	// Application is handed to the vendor on startup.
	Application *Application
	// LoggerAdapter traces every vendor call. Defaults to a no-op logger.
	LoggerAdapter adapters.LoggerAdapter
}

// Destination forwards host analytics calls to a Quantcast VendorClient.
//
// Quantcast is an audience measurement tool that captures demographic and
// traffic data about an app's users. Each host call maps to at most one
// vendor call; events are returned unchanged so the pipeline can continue.
type Destination struct {
	vendor VendorClient
	app    *Application
	logger adapters.LoggerAdapter

	mu      sync.RWMutex
	state   settingsState
	started bool
}

// NewDestination creates a Destination that has not yet received settings.
func NewDestination(config DestinationConfig) (*Destination, error) {
	if config.Vendor == nil {
		return nil, errors.New("vendor client must be provided in config")
	}

	logger := config.LoggerAdapter
	if logger == nil {
		logger = adapters.NewNoOpLoggerAdapter()
	}

	return &Destination{
		vendor: config.Vendor,
		app:    config.Application,
		logger: logger,
		state:  uninitialized{},
	}, nil
}

func (d *Destination) Key() string {
	return Key
}

// Settings returns the last settings received, if any.
func (d *Destination) Settings() (Settings, bool) {
	switch s := d.currentState().(type) {
	case ready:
		return s.settings, true
	default:
		return Settings{}, false
	}
}

// Update stores the Quantcast section of settings, replacing whatever was
// there before. The first Initial update that carries Quantcast settings
// starts the vendor and turns on its verbose logging; later updates only
// replace the stored settings. An error from the vendor's startup is returned
// as is.
func (d *Destination) Update(settings *HostSettings, kind UpdateType) error {
	parsed, ok := settings.DestinationSettings(Key)

	d.mu.Lock()
	if ok {
		d.state = ready{settings: parsed}
	} else {
		d.state = uninitialized{}
	}
	shouldStart := ok && kind == UpdateTypeInitial && !d.started
	if shouldStart {
		d.started = true
	}
	d.mu.Unlock()

	if !ok {
		d.logger.Debug("No %s settings in %s update", Key, kind)
		return nil
	}
	if !shouldStart {
		return nil
	}

	d.logger.Debug("Quantcast.Start(application, %s, nil, nil)", parsed.APIKey)
	if err := d.vendor.Start(d.app, parsed.APIKey, nil, nil); err != nil {
		return fmt.Errorf("start quantcast: %w", err)
	}

	d.logger.Debug("Quantcast.EnableLogging(true)")
	d.vendor.EnableLogging(true)
	return nil
}

func (d *Destination) Identify(event *IdentifyEvent) Event {
	d.logger.Debug("Quantcast.RecordUserIdentifier(%s)", event.UserID)
	d.vendor.RecordUserIdentifier(event.UserID)
	return event
}

func (d *Destination) Screen(event *ScreenEvent) Event {
	d.logEvent(fmt.Sprintf(viewedEventFormat, event.Name))
	return event
}

func (d *Destination) Track(event *TrackEvent) Event {
	d.logEvent(event.Event)
	return event
}

// Execute routes event to its handler. Variants Quantcast has no mapping for
// are returned untouched.
func (d *Destination) Execute(event Event) Event {
	switch e := event.(type) {
	case *IdentifyEvent:
		return d.Identify(e)
	case *ScreenEvent:
		return d.Screen(e)
	case *TrackEvent:
		return d.Track(e)
	default:
		return event
	}
}

// OnActivityStarted tells the vendor an activity came to the foreground.
// Before any settings arrive the vendor has not been started and the call is
// dropped.
func (d *Destination) OnActivityStarted(activity *Activity) {
	switch d.currentState().(type) {
	case ready:
		d.vendor.ActivityStart(activity)
		d.logger.Debug("Quantcast.ActivityStart(activity)")
	case uninitialized:
	}
}

// OnActivityStopped tells the vendor an activity left the foreground. It is
// guarded the same way as OnActivityStarted.
func (d *Destination) OnActivityStopped(activity *Activity) {
	switch d.currentState().(type) {
	case ready:
		d.logger.Debug("Quantcast.ActivityStop()")
		d.vendor.ActivityStop()
	case uninitialized:
	}
}

// OnActivityCreated has no Quantcast counterpart.
func (d *Destination) OnActivityCreated(activity *Activity, savedState Bundle) {}

func (d *Destination) logEvent(name string) {
	d.logger.Debug("Quantcast.LogEvent(%s)", name)
	d.vendor.LogEvent(name)
}

func (d *Destination) currentState() settingsState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}
