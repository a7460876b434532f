package domain

// Identity is the pseudo-identity attached to attribution events. It is
// derived locally and used only for marketing attribution, never for
// authentication.
type Identity struct {
	// ExternalID is derived once per browser and reused verbatim afterwards.
	ExternalID string `json:"external_id"`
	// ClickID is an ad-network token captured from the landing URL, kept for
	// the current session only.
	ClickID string `json:"click_id,omitempty"`
	// Email is user-supplied and persisted across sessions once given. It is
	// attached raw; hashing happens server-side at the relay.
	Email string `json:"email,omitempty"`
}

// PageContext carries the browser-side facts the front-end sends with every
// tracked action. URL is mandatory on every event.
type PageContext struct {
	URL       string `json:"url"`
	UserAgent string `json:"user_agent"`
	Language  string `json:"language,omitempty"`
	Screen    string `json:"screen,omitempty"`
	CPUCount  int    `json:"cpu_count,omitempty"`
}
