package attribution

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/storage"
)

// captureSink records enqueued events without dispatching anything.
type captureSink struct {
	events []domain.ConversionEvent
}

func (s *captureSink) Enqueue(event domain.ConversionEvent) {
	s.events = append(s.events, event)
}

func testPage(url string) domain.PageContext {
	return domain.PageContext{
		URL:       url,
		UserAgent: "Mozilla/5.0 (test)",
		Language:  "en-US",
		Screen:    "2560x1440",
		CPUCount:  8,
	}
}

func newTestEngine(durable, session storage.Store) (*Engine, *captureSink) {
	sink := &captureSink{}
	return NewEngine(durable, session, "visitor:test", "USD", sink, zap.NewNop()), sink
}

func TestEngine_Identity_ExternalIDStableAcrossSessions(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryStore()

	first, _ := newTestEngine(durable, storage.NewMemoryStore())
	id1 := first.Identity(ctx, testPage("https://visiomancer.com/"))

	// Fresh session, same durable store, drifted fingerprint inputs.
	second, _ := newTestEngine(durable, storage.NewMemoryStore())
	drifted := testPage("https://visiomancer.com/")
	drifted.Screen = "1920x1080"
	id2 := second.Identity(ctx, drifted)

	assert.NotEmpty(t, id1.ExternalID)
	assert.Equal(t, id1.ExternalID, id2.ExternalID)
}

func TestEngine_Identity_ClickIDCapturedOncePerSession(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	landed := engine.Identity(ctx, testPage("https://visiomancer.com/?fbclid=click-123"))
	assert.Equal(t, "click-123", landed.ClickID)

	// Later navigation within the session keeps the stored value even though
	// the URL no longer carries the parameter.
	later := engine.Identity(ctx, testPage("https://visiomancer.com/products"))
	assert.Equal(t, "click-123", later.ClickID)
}

func TestEngine_Identity_ClickIDCapturedForEveryKnownNetwork(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		param string
		value string
	}{
		{"fbclid", "fb-1"},
		{"gclid", "g-2"},
		{"ttclid", "tt-3"},
		{"msclkid", "ms-4"},
		{"wbraid", "wb-5"},
		{"twclid", "tw-6"},
	}

	for _, tc := range cases {
		t.Run(tc.param, func(t *testing.T) {
			engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

			landed := engine.Identity(ctx, testPage("https://visiomancer.com/?"+tc.param+"="+tc.value))
			assert.Equal(t, tc.value, landed.ClickID)
		})
	}
}

func TestEngine_Identity_ClickIDDoesNotSurviveSessionEnd(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryStore()

	first, _ := newTestEngine(durable, storage.NewMemoryStore())
	landed := first.Identity(ctx, testPage("https://visiomancer.com/?gclid=ad-77"))
	assert.Equal(t, "ad-77", landed.ClickID)

	// New session store, durable store carried over.
	second, _ := newTestEngine(durable, storage.NewMemoryStore())
	next := second.Identity(ctx, testPage("https://visiomancer.com/"))
	assert.Empty(t, next.ClickID)
	assert.Equal(t, landed.ExternalID, next.ExternalID)
}

func TestEngine_BindEmail_AttachedToLaterEvents(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	assert.NoError(t, engine.BindEmail(ctx, "visitor@example.com"))

	event := engine.TrackPageVisit(ctx, testPage("https://visiomancer.com/"))
	assert.Equal(t, "visitor@example.com", event.Email)
	assert.Equal(t, "visitor@example.com", event.UserData.Em)
}

func TestEngine_TrackPageVisit_CarriesPageURL(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	event := engine.TrackPageVisit(ctx, testPage("https://visiomancer.com/about"))

	assert.Equal(t, domain.EventPageVisit, event.EventName)
	assert.Equal(t, domain.ActionSourceWebsite, event.ActionSource)
	assert.Equal(t, "https://visiomancer.com/about", event.UserData.SourceURL)
	assert.NotEmpty(t, event.EventID)
	assert.NotZero(t, event.EventTime)
}

func TestEngine_TrackAddToCart_BuildsItemCustomData(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	event := engine.TrackAddToCart(ctx, testPage("https://visiomancer.com/products/poster"), domain.CartItem{
		ProductID: "p1",
		VariantID: "v1",
		Title:     "Astral Poster",
		Price:     24.99,
		Quantity:  1,
		Vendor:    domain.VendorPrintful,
	})

	assert.Equal(t, domain.EventAddToCart, event.EventName)
	assert.Equal(t, []string{"p1"}, event.CustomData.ContentIDs)
	assert.InDelta(t, 24.99, event.CustomData.Value, 1e-9)
	assert.Equal(t, "USD", event.CustomData.Currency)
	assert.NotEmpty(t, event.UserData.SourceURL)
}

func TestEngine_TrackCheckout_AggregatesItems(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	items := []domain.CartItem{
		{ProductID: "p1", VariantID: "v1", Price: 10, Quantity: 2},
		{ProductID: "p2", VariantID: "v2", Price: 5, Quantity: 3},
	}

	event := engine.TrackCheckout(ctx, testPage("https://visiomancer.com/checkout"), items, "order-9")

	assert.Equal(t, domain.EventCheckout, event.EventName)
	assert.Equal(t, "order-9", event.CustomData.OrderID)
	assert.InDelta(t, 35.0, event.CustomData.Value, 1e-9)
	assert.Equal(t, 5, event.CustomData.NumItems)
	assert.Equal(t, []string{"p1", "p2"}, event.CustomData.ContentIDs)
}

func TestEngine_TrackCheckout_SynthesizesOrderID(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	event := engine.TrackCheckout(ctx, testPage("https://visiomancer.com/checkout"), nil, "")

	assert.True(t, strings.HasPrefix(event.CustomData.OrderID, "ord_"))
}

func TestEngine_Events_LogKeepsEveryBuiltEvent(t *testing.T) {
	ctx := context.Background()
	engine, sink := newTestEngine(storage.NewMemoryStore(), storage.NewMemoryStore())

	engine.TrackPageVisit(ctx, testPage("https://visiomancer.com/"))
	engine.TrackPageVisit(ctx, testPage("https://visiomancer.com/products"))

	events := engine.Events()
	assert.Len(t, events, 2)
	assert.Len(t, sink.events, 2)

	// Log entries and dispatched events are the same records.
	assert.Equal(t, events[0].EventID, sink.events[0].EventID)

	for _, ev := range events {
		assert.NotEmpty(t, ev.UserData.SourceURL)
	}
}
