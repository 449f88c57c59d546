package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultHTTPTimeout bounds a single collector request.
const DefaultHTTPTimeout = 10 * time.Second

// RestyHTTPAdapter is the default HTTPAdapter, built on resty.
type RestyHTTPAdapter struct {
	client *resty.Client
}

// Ensure RestyHTTPAdapter implements HTTPAdapter interface
var _ HTTPAdapter = (*RestyHTTPAdapter)(nil)

// NewRestyHTTPAdapter creates an adapter with the given per-request timeout.
// A non-positive timeout uses DefaultHTTPTimeout.
func NewRestyHTTPAdapter(timeout time.Duration) *RestyHTTPAdapter {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("Content-Type", "application/json")
	return &RestyHTTPAdapter{client: c}
}

// NewRestyHTTPAdapterWithClient adapts an already configured resty client.
func NewRestyHTTPAdapterWithClient(client *resty.Client) *RestyHTTPAdapter {
	return &RestyHTTPAdapter{client: client}
}

// Send posts events as {"events": [...]} to endpoint.
// Non-2xx statuses are reported through HTTPResponse, not as errors.
func (r *RestyHTTPAdapter) Send(ctx context.Context, endpoint string, events []Event, headers map[string]string) (*HTTPResponse, error) {
	req := r.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"events": events})
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return &HTTPResponse{
		OK:     resp.IsSuccess(),
		Status: resp.StatusCode(),
		Data:   resp.Body(),
	}, nil
}
