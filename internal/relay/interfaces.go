package relay

import (
	"context"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

// Dispatcher sends a single conversion event to the relay endpoint. The
// result is informational: delivery is best-effort and callers may ignore it,
// but the outcome stays visible for logging and tests.
type Dispatcher interface {
	Send(ctx context.Context, event domain.ConversionEvent) domain.DispatchResult
}
