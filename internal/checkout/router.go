package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/attribution"
	"github.com/visionaryvybes/visiomancer-core/internal/cart"
	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/order"
)

var (
	// ErrEmptyCart means checkout was requested with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAddressRequired means print-on-demand items are present but no
	// shipping address was submitted.
	ErrAddressRequired = errors.New("shipping address is required")
	// ErrIncompleteAddress means the submitted shipping address is missing a
	// required field.
	ErrIncompleteAddress = errors.New("incomplete shipping address")
)

// Redirect is one outbound marketplace checkout the front-end must open.
// Delay is the earliest point, measured from when checkout began, at which
// the URL should be opened; spacing the openings keeps browsers'
// popup-blocker heuristics from suppressing all but the first tab.
type Redirect struct {
	URL   string
	Delay time.Duration
}

// Result is the outcome of one checkout run.
type Result struct {
	// EventID identifies the checkout attribution event that covered the run.
	EventID string
	// OrderID is set when a server-side order was created.
	OrderID string
	// Redirects lists outbound marketplace checkouts in cart order.
	Redirects []Redirect
}

// Router routes each line item to its fulfillment path: marketplace items
// become outbound redirect URLs, print-on-demand items become one
// server-side order.
type Router struct {
	orders  order.Creator
	stagger time.Duration
	log     *zap.Logger
}

// NewRouter creates a checkout router.
func NewRouter(orders order.Creator, cfg config.Checkout, log *zap.Logger) *Router {
	stagger := time.Duration(cfg.StaggerMs) * time.Millisecond
	if stagger <= 0 {
		stagger = 800 * time.Millisecond
	}

	return &Router{
		orders:  orders,
		stagger: stagger,
		log:     log,
	}
}

// Checkout executes the full routing flow for the visitor's cart. One
// aggregate checkout event is emitted before either fulfillment path runs.
// On order-creation failure the cart is left untouched; on success the cart
// items covered by the order are cleared.
func (r *Router) Checkout(ctx context.Context, carts *cart.Store, engine *attribution.Engine, pc domain.PageContext, addr *domain.ShippingAddress) (*Result, error) {
	items := carts.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	physical, digital := partition(items)

	if len(physical) > 0 {
		if addr == nil {
			return nil, ErrAddressRequired
		}
		if err := validateAddress(*addr); err != nil {
			return nil, err
		}
	}

	// Attribution first: one event covering everything being checked out.
	event := engine.TrackCheckout(ctx, pc, items, "")
	result := &Result{EventID: event.EventID}

	result.Redirects = r.redirects(digital)

	if len(physical) > 0 {
		orderID, err := r.orders.CreateOrder(ctx, physical, *addr)
		if err != nil {
			r.log.Error("Order creation failed", zap.Error(err), zap.Int("item_count", len(physical)))
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		result.OrderID = orderID
		carts.Clear(ctx)
	}

	r.log.Info("Checkout routed",
		zap.String("event_id", result.EventID),
		zap.String("order_id", result.OrderID),
		zap.Int("redirect_count", len(result.Redirects)))

	return result, nil
}

// partition splits cart items by vendor, preserving cart order in each half.
func partition(items []domain.CartItem) (physical, digital []domain.CartItem) {
	for _, it := range items {
		if it.Vendor == domain.VendorPayhip {
			digital = append(digital, it)
			continue
		}
		physical = append(physical, it)
	}
	return physical, digital
}

// redirects builds the outbound checkout plan for marketplace items. A
// single URL opens immediately; with several, opening i is held back by
// stagger×i.
func (r *Router) redirects(items []domain.CartItem) []Redirect {
	if len(items) == 0 {
		return nil
	}

	out := make([]Redirect, 0, len(items))
	for i, it := range items {
		out = append(out, Redirect{
			URL:   BuildCheckoutURL(it.CheckoutURL, it.Quantity),
			Delay: time.Duration(i) * r.stagger,
		})
	}
	return out
}

func validateAddress(addr domain.ShippingAddress) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s is required", ErrIncompleteAddress, field)
	}

	switch {
	case addr.Name == "":
		return missing("name")
	case addr.Email == "":
		return missing("email")
	case addr.Address1 == "":
		return missing("address1")
	case addr.City == "":
		return missing("city")
	case addr.PostalCode == "":
		return missing("zip")
	case addr.Country == "":
		return missing("country_code")
	}
	return nil
}
