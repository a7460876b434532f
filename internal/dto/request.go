package dto

import (
	"sort"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

// PagePayload carries the browser facts attached to every tracked action.
// The page URL is mandatory on all event kinds.
type PagePayload struct {
	URL       string `json:"url" binding:"required" example:"https://visiomancer.com/products/astral-poster"`
	UserAgent string `json:"user_agent" example:"Mozilla/5.0"`
	Language  string `json:"language" example:"en-US"`
	Screen    string `json:"screen" example:"2560x1440"`
	CPUCount  int    `json:"cpu_count" example:"8"`
}

// ToDomain converts the payload to a domain page context.
func (p PagePayload) ToDomain() domain.PageContext {
	return domain.PageContext{
		URL:       p.URL,
		UserAgent: p.UserAgent,
		Language:  p.Language,
		Screen:    p.Screen,
		CPUCount:  p.CPUCount,
	}
}

// AddItemRequest represents an add-to-cart request.
type AddItemRequest struct {
	ProductID   string      `json:"product_id" binding:"required" example:"prod_42"`
	VariantID   string      `json:"variant_id" binding:"required" example:"var_42_m"`
	Title       string      `json:"title" example:"Astral Poster"`
	Price       float64     `json:"price" example:"24.99"`
	Image       string      `json:"image"`
	Size        string      `json:"size" example:"M"`
	Vendor      string      `json:"vendor" example:"printful"`
	CheckoutURL string      `json:"checkout_url"`
	Page        PagePayload `json:"page" binding:"required"`
}

// ToDomain converts the request to a cart item. Quantity is owned by the
// cart store, never by the request.
func (r AddItemRequest) ToDomain() domain.CartItem {
	return domain.CartItem{
		ProductID:   r.ProductID,
		VariantID:   r.VariantID,
		Title:       r.Title,
		Price:       r.Price,
		Image:       r.Image,
		Size:        r.Size,
		Vendor:      domain.Vendor(r.Vendor),
		CheckoutURL: r.CheckoutURL,
	}
}

// VariantPayload mirrors one catalog variant in a resolve request.
type VariantPayload struct {
	ID      string            `json:"id" binding:"required" example:"var_42_m"`
	Title   string            `json:"title" example:"Astral Poster - M"`
	Price   float64           `json:"price" example:"24.99"`
	Enabled bool              `json:"enabled"`
	Options map[string]string `json:"options"`
}

// ResolveVariantRequest asks which variant an option selection points at.
// The front-end sends the product's variant list as served by the catalog;
// a partial selection still gets a display price and availability.
type ResolveVariantRequest struct {
	Variants  []VariantPayload  `json:"variants" binding:"required"`
	Selection map[string]string `json:"selection"`
	Options   []string          `json:"options"`
}

// ToDomain converts the request's variant list.
func (r ResolveVariantRequest) ToDomain() []domain.Variant {
	variants := make([]domain.Variant, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, domain.Variant{
			ID:      v.ID,
			Title:   v.Title,
			Price:   v.Price,
			Enabled: v.Enabled,
			Options: v.Options,
		})
	}
	return variants
}

// OptionNames returns the option names to report availability for: the
// requested list when given, otherwise every name seen on a variant, sorted
// for stable output.
func (r ResolveVariantRequest) OptionNames() []string {
	if len(r.Options) > 0 {
		return r.Options
	}

	seen := make(map[string]bool)
	var names []string
	for _, v := range r.Variants {
		for name := range v.Options {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// UpdateQuantityRequest represents an absolute quantity update. A quantity
// of zero removes the entry.
type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"prod_42"`
	VariantID string `json:"variant_id" binding:"required" example:"var_42_m"`
	Quantity  *int   `json:"quantity" binding:"required" example:"3"`
}

// TrackPageVisitRequest represents a page_visit tracking request.
type TrackPageVisitRequest struct {
	Page PagePayload `json:"page" binding:"required"`
}

// BindEmailRequest represents an email binding request.
type BindEmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"visitor@example.com"`
}

// ShippingAddressPayload is the address form for server-side orders.
type ShippingAddressPayload struct {
	Name       string `json:"name" example:"Ada Lovelace"`
	Email      string `json:"email" example:"ada@example.com"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1" example:"12 Analytical Way"`
	Address2   string `json:"address2"`
	City       string `json:"city" example:"London"`
	Region     string `json:"state_code"`
	PostalCode string `json:"zip" example:"N1 9GU"`
	Country    string `json:"country_code" example:"GB"`
}

// ToDomain converts the payload to a domain shipping address.
func (p ShippingAddressPayload) ToDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Address1:   p.Address1,
		Address2:   p.Address2,
		City:       p.City,
		Region:     p.Region,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

// CheckoutRequest represents a checkout request. The shipping address is
// only required when the cart holds print-on-demand items.
type CheckoutRequest struct {
	Page            PagePayload             `json:"page" binding:"required"`
	ShippingAddress *ShippingAddressPayload `json:"shipping_address"`
}
