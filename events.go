package quantcast

import (
	"encoding/json"
	"time"
)

// Event is one of the host pipeline's event variants: *IdentifyEvent,
// *ScreenEvent, *TrackEvent, *GroupEvent or *AliasEvent. The set is closed.
type Event interface {
	Base() *EventBase
	isEvent()
}

// EventBase carries the fields shared by every event variant.
type EventBase struct {
	MessageID   string          `json:"messageId,omitempty"`
	AnonymousID string          `json:"anonymousId,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Context     json.RawMessage `json:"context,omitempty"`
}

func (b *EventBase) Base() *EventBase { return b }

func (*EventBase) isEvent() {}

type IdentifyEvent struct {
	EventBase
	UserID string          `json:"userId"`
	Traits json.RawMessage `json:"traits,omitempty"`
}

type ScreenEvent struct {
	EventBase
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

type TrackEvent struct {
	EventBase
	Event      string          `json:"event"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

type GroupEvent struct {
	EventBase
	GroupID string          `json:"groupId"`
	Traits  json.RawMessage `json:"traits,omitempty"`
}

type AliasEvent struct {
	EventBase
	UserID     string `json:"userId"`
	PreviousID string `json:"previousId"`
}
