package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

// Client submits orders to the fulfillment collaborator over HTTP.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	log        *zap.Logger
}

// NewClient creates an order client from configuration.
func NewClient(cfg config.Orders, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		log:      log,
	}
}

type createOrderRequest struct {
	Items           []domain.CartItem      `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
}

type createOrderResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// CreateOrder posts the line items and shipping address and returns the new
// order's id.
func (c *Client) CreateOrder(ctx context.Context, items []domain.CartItem, addr domain.ShippingAddress) (string, error) {
	body, err := json.Marshal(createOrderRequest{Items: items, ShippingAddress: addr})
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}
	defer resp.Body.Close()

	var decoded createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || decoded.Error != "" {
		if decoded.Error == "" {
			decoded.Error = fmt.Sprintf("order endpoint returned %d", resp.StatusCode)
		}
		return "", fmt.Errorf("order creation failed: %s", decoded.Error)
	}

	if decoded.ID == "" {
		return "", fmt.Errorf("order endpoint returned no order id")
	}

	c.log.Info("Order created", zap.String("order_id", decoded.ID), zap.Int("item_count", len(items)))
	return decoded.ID, nil
}
