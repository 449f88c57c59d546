package quantcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Settings is the Quantcast section of the host's settings blob.
type Settings struct {
	// APIKey identifies the app to Quantcast.
	APIKey string `json:"apiKey"`
	// PCode is the publisher code shown after logging in to Quantcast.
	PCode string `json:"pCode"`
	// Advertise sends data to Quantcast Advertise instead of Measure.
	Advertise bool `json:"advertise"`
	// AdvertiseProducts labels eCommerce events with the products they include.
	AdvertiseProducts bool `json:"advertiseProducts"`
}

// UpdateType tells whether a settings delivery is the first one.
type UpdateType int

const (
	UpdateTypeInitial UpdateType = iota
	UpdateTypeRefresh
)

func (u UpdateType) String() string {
	switch u {
	case UpdateTypeInitial:
		return "Initial"
	case UpdateTypeRefresh:
		return "Refresh"
	default:
		return fmt.Sprintf("UpdateType(%d)", int(u))
	}
}

// HostSettings is the raw settings blob delivered by the host, keyed by
// destination name.
type HostSettings struct {
	Integrations map[string]json.RawMessage `json:"integrations"`
}

// ParseHostSettings decodes a settings blob. Unknown keys are ignored.
func ParseHostSettings(data []byte) (*HostSettings, error) {
	var hs HostSettings
	if err := json.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("decode host settings: %w", err)
	}
	return &hs, nil
}

// DestinationSettings extracts the settings stored under key. The exact key
// is tried first, then a case-insensitive match. It reports false when the
// entry is missing, null, not an object, or does not decode into Settings.
func (h *HostSettings) DestinationSettings(key string) (Settings, bool) {
	if h == nil || len(h.Integrations) == 0 {
		return Settings{}, false
	}

	raw, ok := h.Integrations[key]
	if !ok {
		for k, v := range h.Integrations {
			if strings.EqualFold(k, key) {
				raw, ok = v, true
				break
			}
		}
	}
	if !ok {
		return Settings{}, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Settings{}, false
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, false
	}
	return s, true
}

// settingsState is either uninitialized{} or ready{}.
type settingsState interface {
	isSettingsState()
}

type uninitialized struct{}

type ready struct {
	settings Settings
}

func (uninitialized) isSettingsState() {}
func (ready) isSettingsState()         {}
