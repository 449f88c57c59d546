package quantcast_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	quantcast "github.com/Tap30/quantcast-go"
	"github.com/Tap30/quantcast-go/adapters"
	"github.com/Tap30/quantcast-go/measurement"
)

type collector struct {
	mu     sync.Mutex
	events []adapters.Event
	keys   []string
}

func (c *collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Events []adapters.Event `json:"events"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.events = append(c.events, body.Events...)
	c.keys = append(c.keys, r.Header.Get(measurement.DefaultAPIKeyHeader))
	c.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (c *collector) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for _, e := range c.events {
		names = append(names, e.Name)
	}
	return names
}

func TestDestinationWithMeasurementClient(t *testing.T) {
	sink := &collector{}
	server := httptest.NewServer(sink)
	defer server.Close()

	storage, err := adapters.OpenBoltStorageAdapter(filepath.Join(t.TempDir(), "pending.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer storage.Close()

	client, err := measurement.NewClient(measurement.Config{
		Endpoint:       server.URL,
		FlushInterval:  time.Hour,
		MaxBatchSize:   100,
		HTTPAdapter:    adapters.NewRestyHTTPAdapter(time.Second),
		StorageAdapter: storage,
		LoggerAdapter:  adapters.NewNoOpLoggerAdapter(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	destination, err := quantcast.NewDestination(quantcast.DestinationConfig{
		Vendor:      client,
		Application: &quantcast.Application{Name: "demo", Version: "1.0.0"},
	})
	if err != nil {
		t.Fatalf("NewDestination: %v", err)
	}

	settings, err := quantcast.ParseHostSettings([]byte(`{"integrations":{"Quantcast":{"apiKey":"APIKEY1234567890","pCode":"","advertise":false,"advertiseProducts":false}}}`))
	if err != nil {
		t.Fatalf("ParseHostSettings: %v", err)
	}

	activity := &quantcast.Activity{Name: "Main"}
	destination.OnActivityStarted(activity)
	if err := destination.Update(settings, quantcast.UpdateTypeInitial); err != nil {
		t.Fatalf("Update: %v", err)
	}
	destination.OnActivityStarted(activity)
	destination.Execute(&quantcast.IdentifyEvent{UserID: "User-Id-123"})
	destination.Execute(&quantcast.ScreenEvent{Name: "Screen 1"})
	destination.Execute(&quantcast.TrackEvent{Event: "Track 1"})
	destination.OnActivityStopped(activity)

	if err := client.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}

	want := []string{"load", "Viewed Screen 1 Screen", "Track 1", "pause"}
	got := sink.names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	for _, key := range sink.keys {
		if key != "APIKEY1234567890" {
			t.Fatalf("expected api key header, got %q", key)
		}
	}
	if sink.events[2].UserHash == "" {
		t.Fatal("expected tracked event to carry the user hash")
	}

	pending, err := storage.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected nothing pending after delivery, got %d", len(pending))
	}
}
