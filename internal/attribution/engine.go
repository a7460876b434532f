package attribution

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
	"github.com/visionaryvybes/visiomancer-core/internal/storage"
)

// clickIDParams are the ad-network query parameters checked on the landing
// URL, in priority order.
var clickIDParams = []string{"fbclid", "gclid", "ttclid", "msclkid", "wbraid", "twclid"}

const (
	externalIDKey = "attribution:external_id"
	emailKey      = "attribution:email"
	clickIDKey    = "attribution:click_id"
)

// EventSink receives built events for asynchronous dispatch to the relay.
type EventSink interface {
	Enqueue(event domain.ConversionEvent)
}

// Engine derives a stable pseudo-identity for one visitor, captures ad-click
// identifiers from the landing URL, and builds the conversion events the
// storefront emits. Built events land in an in-memory session log and are
// handed to the sink exactly once; whether the relay ever receives them does
// not affect the log.
type Engine struct {
	durable storage.Store
	session storage.Store
	prefix  string
	sink    EventSink
	log     *zap.Logger

	currency string

	mu     sync.Mutex
	events []domain.ConversionEvent
}

// NewEngine creates an attribution engine for one visitor. The durable store
// survives across sessions (external id, email); the session store does not
// (click id). Keys are namespaced under prefix so visitors never collide.
func NewEngine(durable, session storage.Store, prefix, currency string, sink EventSink, log *zap.Logger) *Engine {
	return &Engine{
		durable:  durable,
		session:  session,
		prefix:   prefix,
		currency: currency,
		sink:     sink,
		log:      log,
	}
}

func (e *Engine) key(base string) string {
	return e.prefix + ":" + base
}

// Identity resolves the visitor's current identity for pc. The external id is
// derived on first sight and reused verbatim afterwards, even if the
// fingerprint inputs drift. The click id is captured from the page URL once
// per session and then preferred from session storage.
func (e *Engine) Identity(ctx context.Context, pc domain.PageContext) domain.Identity {
	return domain.Identity{
		ExternalID: e.externalID(ctx, pc),
		ClickID:    e.clickID(ctx, pc.URL),
		Email:      e.email(ctx),
	}
}

func (e *Engine) externalID(ctx context.Context, pc domain.PageContext) string {
	stored, err := e.durable.Get(ctx, e.key(externalIDKey), "")
	if err != nil {
		e.log.Warn("Failed to read external id", zap.Error(err))
	}
	if stored != "" {
		return stored
	}

	id := fingerprint(pc)
	if err := e.durable.Set(ctx, e.key(externalIDKey), id); err != nil {
		e.log.Warn("Failed to persist external id", zap.Error(err))
	}
	return id
}

// fingerprint hashes browser facts into a small stable integer. It is not
// cryptographic; it only needs to be stable per browser.
func fingerprint(pc domain.PageContext) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s|%d", pc.UserAgent, pc.Language, pc.Screen, pc.CPUCount)
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

func (e *Engine) clickID(ctx context.Context, pageURL string) string {
	stored, err := e.session.Get(ctx, e.key(clickIDKey), "")
	if err != nil {
		e.log.Warn("Failed to read click id", zap.Error(err))
	}
	if stored != "" {
		return stored
	}

	captured := captureClickID(pageURL)
	if captured == "" {
		return ""
	}

	if err := e.session.Set(ctx, e.key(clickIDKey), captured); err != nil {
		e.log.Warn("Failed to persist click id", zap.Error(err))
	}
	e.log.Info("Captured click id", zap.String("click_id", captured))
	return captured
}

// captureClickID inspects the page URL query for ad-network click tokens.
func captureClickID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	query := u.Query()
	for _, param := range clickIDParams {
		if v := query.Get(param); v != "" {
			return v
		}
	}
	return ""
}

func (e *Engine) email(ctx context.Context) string {
	email, err := e.durable.Get(ctx, e.key(emailKey), "")
	if err != nil {
		e.log.Warn("Failed to read email", zap.Error(err))
	}
	return email
}

// BindEmail durably binds a user-supplied email. It is attached raw to every
// later event; hashing is the relay's job.
func (e *Engine) BindEmail(ctx context.Context, email string) error {
	if err := e.durable.Set(ctx, e.key(emailKey), email); err != nil {
		return fmt.Errorf("failed to bind email: %w", err)
	}
	return nil
}

// TrackPageVisit records a page_visit event for pc.
func (e *Engine) TrackPageVisit(ctx context.Context, pc domain.PageContext) domain.ConversionEvent {
	return e.emit(ctx, domain.EventPageVisit, pc, domain.CustomData{
		ContentName: pc.URL,
	})
}

// TrackAddToCart records an add_to_cart event for one line item.
func (e *Engine) TrackAddToCart(ctx context.Context, pc domain.PageContext, item domain.CartItem) domain.ConversionEvent {
	return e.emit(ctx, domain.EventAddToCart, pc, domain.CustomData{
		ContentIDs:      []string{item.ProductID},
		ContentName:     item.Title,
		ContentCategory: string(item.Vendor),
		Value:           item.Price,
		Currency:        e.currency,
		NumItems:        1,
	})
}

// TrackCheckout records a single checkout event covering every item being
// checked out, with aggregate value and item count. When orderID is empty one
// is synthesized; the synthetic id is good enough for attribution, not for
// billing.
func (e *Engine) TrackCheckout(ctx context.Context, pc domain.PageContext, items []domain.CartItem, orderID string) domain.ConversionEvent {
	if orderID == "" {
		orderID = newOrderID()
	}

	var value float64
	var count int
	ids := make([]string, 0, len(items))
	for _, it := range items {
		value += it.LineTotal()
		count += it.Quantity
		ids = append(ids, it.ProductID)
	}

	return e.emit(ctx, domain.EventCheckout, pc, domain.CustomData{
		ContentIDs: ids,
		Value:      value,
		Currency:   e.currency,
		NumItems:   count,
		OrderID:    orderID,
	})
}

// newOrderID synthesizes an order id from the current time plus a random
// suffix. Collisions are tolerable at attribution volumes.
func newOrderID() string {
	return fmt.Sprintf("ord_%d_%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func (e *Engine) emit(ctx context.Context, name domain.EventName, pc domain.PageContext, custom domain.CustomData) domain.ConversionEvent {
	identity := e.Identity(ctx, pc)

	event := domain.ConversionEvent{
		EventName:    name,
		ActionSource: domain.ActionSourceWebsite,
		EventTime:    time.Now().Unix(),
		EventID:      uuid.NewString(),
		Email:        identity.Email,
		UserData: domain.UserData{
			ExternalID: identity.ExternalID,
			ClickID:    identity.ClickID,
			Em:         identity.Email,
			UserAgent:  pc.UserAgent,
			SourceURL:  pc.URL,
		},
		CustomData: custom,
	}

	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()

	e.sink.Enqueue(event)

	e.log.Info("Tracked conversion event",
		zap.String("event_name", string(name)),
		zap.String("event_id", event.EventID))

	return event
}

// Events returns a snapshot of the session's event log, oldest first. The
// log keeps every built event regardless of relay delivery, so the UI can
// always show recent activity.
func (e *Engine) Events() []domain.ConversionEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.ConversionEvent, len(e.events))
	copy(out, e.events)
	return out
}
