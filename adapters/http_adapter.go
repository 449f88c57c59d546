package adapters

import "context"

// HTTPResponse represents the response from an HTTP request.
type HTTPResponse struct {
	OK     bool
	Status int
	Data   []byte
}

// HTTPAdapter is an interface for HTTP communication.
// Implement this interface to use custom HTTP clients.
type HTTPAdapter interface {
	// Send events to the specified endpoint.
	//
	// Parameters:
	//   - ctx: Request scope; cancellation aborts the in-flight request
	//   - endpoint: The collector URL
	//   - events: Batch of events to send
	//   - headers: Extra headers merged over the defaults
	//
	// Returns HTTP response or error.
	Send(ctx context.Context, endpoint string, events []Event, headers map[string]string) (*HTTPResponse, error)
}
