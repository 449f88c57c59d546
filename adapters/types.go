package adapters

// Event is a single measurement event as sent to the collector.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"event"`
	SessionID string    `json:"sid"`
	UserHash  string    `json:"uh,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	IssuedAt  int64     `json:"et"`
	App       *AppInfo  `json:"app,omitempty"`
	Platform  *Platform `json:"platform"`
}

// AppInfo identifies the host application that produced an event.
type AppInfo struct {
	Name        string `json:"aname,omitempty"`
	Version     string `json:"aver,omitempty"`
	PackageName string `json:"pkid,omitempty"`
}

// Platform describes the runtime the event was measured on.
type Platform struct {
	Type string `json:"type"`
}
