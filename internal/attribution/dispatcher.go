package attribution

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/relay"
)

// DispatcherConfig configures the relay dispatcher.
type DispatcherConfig struct {
	BufferSize   int
	DrainTimeout time.Duration
}

// Dispatcher drains built events to the relay, one at a time, off the
// request path. Delivery is best-effort by contract: there is no retry
// queue, a full buffer drops the event, and a failed send is only logged.
type Dispatcher struct {
	relay        relay.Dispatcher
	buffer       chan domain.ConversionEvent
	drainTimeout time.Duration
	log          *zap.Logger
}

// NewDispatcher creates a dispatcher with a bounded buffer.
func NewDispatcher(r relay.Dispatcher, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	return &Dispatcher{
		relay:        r,
		buffer:       make(chan domain.ConversionEvent, cfg.BufferSize),
		drainTimeout: cfg.DrainTimeout,
		log:          log,
	}
}

// Enqueue hands an event to the dispatch loop without blocking the caller.
// When the buffer is full the event is dropped; it still lives in the
// session log, the relay just never hears about it.
func (d *Dispatcher) Enqueue(event domain.ConversionEvent) {
	select {
	case d.buffer <- event:
	default:
		d.log.Warn("Dispatch buffer full, dropping event",
			zap.String("event_id", event.EventID),
			zap.String("event_name", string(event.EventName)))
	}
}

// Start runs the dispatch loop until ctx is cancelled, then drains whatever
// is already buffered.
func (d *Dispatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Dispatcher shutting down", zap.Int("buffered", len(d.buffer)))
			d.drain()
			return
		case event := <-d.buffer:
			d.send(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	// Shutdown context is gone; the final sends share one short deadline so a
	// dead relay cannot hold process exit for the whole buffer.
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()

	for {
		if ctx.Err() != nil {
			d.log.Warn("Drain deadline reached, dropping buffered events",
				zap.Int("dropped", len(d.buffer)))
			return
		}

		select {
		case event := <-d.buffer:
			d.send(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, event domain.ConversionEvent) {
	result := d.relay.Send(ctx, event)
	if !result.Delivered {
		d.log.Warn("Relay dispatch failed",
			zap.String("event_id", result.EventID),
			zap.String("reason", result.Reason))
		return
	}

	d.log.Debug("Relay dispatch delivered", zap.String("event_id", result.EventID))
}
