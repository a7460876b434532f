package order

import (
	"context"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

// Creator is the order-creation collaborator for print-on-demand items. It
// returns the created order's id, or an error that leaves the caller's cart
// untouched.
type Creator interface {
	CreateOrder(ctx context.Context, items []domain.CartItem, addr domain.ShippingAddress) (string, error)
}
