package quantcast

// Application is the host application context handed to the vendor at
// startup.
type Application struct {
	Name        string
	Version     string
	PackageName string
}

// Activity is an opaque reference to a platform screen/activity. The
// destination passes it through to the vendor unchanged.
type Activity struct {
	Name string
}

// Bundle is saved instance state supplied with an activity creation.
type Bundle map[string]any

// VendorClient is the Quantcast measurement client the destination forwards
// to. measurement.Client is the default implementation.
type VendorClient interface {
	// Start begins measurement for apiKey. userIdentifier and labels are
	// optional and may be nil.
	Start(app *Application, apiKey string, userIdentifier *string, labels []string) error
	EnableLogging(enabled bool)
	RecordUserIdentifier(userID string)
	LogEvent(name string)
	ActivityStart(activity *Activity)
	ActivityStop()
}
