package domain

// CartItem is one line item in the cart: a product variant plus a quantity.
// The (ProductID, VariantID) pair is the item's identity; the cart never
// holds two items with the same pair.
type CartItem struct {
	ProductID   string  `json:"product_id"`
	VariantID   string  `json:"variant_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size,omitempty"`
	Vendor      Vendor  `json:"vendor"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

// LineTotal returns the item's price multiplied by its quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ShippingAddress is the address form submitted with a server-side order.
type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"state_code"`
	PostalCode string `json:"zip"`
	Country    string `json:"country_code"`
}
