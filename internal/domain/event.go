package domain

// EventName is the closed set of conversion event kinds the relay accepts.
type EventName string

const (
	EventPageVisit EventName = "page_visit"
	EventAddToCart EventName = "add_to_cart"
	EventCheckout  EventName = "checkout"
)

// ActionSourceWebsite is the only action source this storefront emits.
const ActionSourceWebsite = "website"

// UserData is the identity subset carried on every conversion event.
// SourceURL is mandatory regardless of event kind.
type UserData struct {
	ExternalID string `json:"external_id"`
	ClickID    string `json:"click_id,omitempty"`
	Em         string `json:"em,omitempty"`
	UserAgent  string `json:"client_user_agent,omitempty"`
	SourceURL  string `json:"event_source_url"`
}

// CustomData holds the event-specific payload.
type CustomData struct {
	ContentIDs      []string `json:"content_ids,omitempty"`
	ContentName     string   `json:"content_name,omitempty"`
	ContentCategory string   `json:"content_category,omitempty"`
	Value           float64  `json:"value,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	NumItems        int      `json:"num_items,omitempty"`
	OrderID         string   `json:"order_id,omitempty"`
}

// ConversionEvent is one marketing conversion record. Events are immutable
// once built: they are appended to the session log and dispatched to the
// relay exactly as constructed.
type ConversionEvent struct {
	EventName    EventName  `json:"event_name"`
	ActionSource string     `json:"action_source"`
	EventTime    int64      `json:"event_time"`
	EventID      string     `json:"event_id"`
	Email        string     `json:"email,omitempty"`
	UserData     UserData   `json:"user_data"`
	CustomData   CustomData `json:"custom_data"`
}

// DispatchResult reports the outcome of one relay dispatch attempt. Delivery
// is best-effort: a failed result is logged and swallowed, never retried.
type DispatchResult struct {
	EventID   string
	Delivered bool
	Reason    string
}
