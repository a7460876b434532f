package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

// Client posts conversion events to the relay endpoint, one JSON body per
// call. There is no retry: a failed send is reported and forgotten.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        *zap.Logger
}

// NewClient creates a relay client from configuration.
func NewClient(cfg config.Relay, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		endpoint: cfg.Endpoint,
		token:    cfg.AccessToken,
		log:      log,
	}
}

// Send posts one event to the relay and reports the outcome.
func (c *Client) Send(ctx context.Context, event domain.ConversionEvent) domain.DispatchResult {
	body, err := json.Marshal(event)
	if err != nil {
		return failed(event.EventID, fmt.Sprintf("encode: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(event.EventID, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(event.EventID, fmt.Sprintf("post: %v", err))
	}
	defer resp.Body.Close()

	// The relay response is opaque; only the status code matters.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return failed(event.EventID, fmt.Sprintf("relay returned %d", resp.StatusCode))
	}

	return domain.DispatchResult{EventID: event.EventID, Delivered: true}
}

func failed(eventID, reason string) domain.DispatchResult {
	return domain.DispatchResult{EventID: eventID, Delivered: false, Reason: reason}
}
