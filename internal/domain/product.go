package domain

// Vendor identifies the fulfillment back-end responsible for a product.
type Vendor string

const (
	// VendorPrintful products are fulfilled through server-side order creation.
	VendorPrintful Vendor = "printful"
	// VendorPayhip products check out through an outbound marketplace URL.
	VendorPayhip Vendor = "payhip"
)

// OptionDefinition describes one configurable axis of a product, such as
// "Size" or "Color", and the values the catalog offers for it.
type OptionDefinition struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a concrete, priced SKU of a product.
type Variant struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Price   float64           `json:"price"`
	Enabled bool              `json:"enabled"`
	Options map[string]string `json:"options"`
}

// Product is a catalog record. The catalog collaborator owns this shape;
// the core only ever reads it.
type Product struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Images      []string           `json:"images"`
	Variants    []Variant          `json:"variants"`
	Options     []OptionDefinition `json:"options"`
	Vendor      Vendor             `json:"vendor"`
	CheckoutURL string             `json:"checkout_url,omitempty"`
}
