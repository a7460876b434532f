package dto

import "github.com/visionaryvybes/visiomancer-core/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"product_id is required"`
}

// CartResponse represents the current cart state.
type CartResponse struct {
	Items  []domain.CartItem `json:"items"`
	Total  float64           `json:"total" example:"74.97"`
	Count  int               `json:"count" example:"3"`
	IsOpen bool              `json:"is_open"`
}

// ResolveVariantResponse represents a variant resolution result. Available
// lists, per option name, the values still selectable under the current
// selection.
type ResolveVariantResponse struct {
	Resolved     bool                `json:"resolved"`
	Variant      *domain.Variant     `json:"variant,omitempty"`
	DisplayPrice float64             `json:"display_price" example:"24.99"`
	Available    map[string][]string `json:"available"`
}

// TrackResponse acknowledges a tracked event.
type TrackResponse struct {
	EventID string `json:"event_id" example:"9f4a2c1e-0b7d-4e55-a1c3-6d2f8b9e0a11"`
}

// RedirectPayload is one outbound marketplace checkout the front-end opens.
// DelayMs is how long to wait from checkout start before opening it.
type RedirectPayload struct {
	URL     string `json:"url"`
	DelayMs int64  `json:"delay_ms" example:"800"`
}

// CheckoutResponse represents the routed checkout outcome.
type CheckoutResponse struct {
	EventID   string            `json:"event_id"`
	OrderID   string            `json:"order_id,omitempty"`
	Redirects []RedirectPayload `json:"redirects,omitempty"`
}

// EventLogResponse lists the session's conversion events, oldest first.
type EventLogResponse struct {
	Events []domain.ConversionEvent `json:"events"`
	Count  int                      `json:"count"`
}

// IdentityResponse represents the visitor's current pseudo-identity.
type IdentityResponse struct {
	ExternalID string `json:"external_id"`
	ClickID    string `json:"click_id,omitempty"`
	Email      string `json:"email,omitempty"`
}
