package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/attribution"
	"github.com/visionaryvybes/visiomancer-core/internal/cart"
	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/storage"
)

// Session is one visitor's live state: their cart and attribution engine.
// The session-scoped store (click ids) dies with the session; the cart
// snapshot and identity live in the durable store keyed by visitor id, so a
// fresh session for a returning visitor picks them back up.
type Session struct {
	ID          string
	VisitorID   string
	Cart        *cart.Store
	Attribution *attribution.Engine

	lastSeen time.Time
}

// Manager creates sessions on demand and prunes the ones that went idle.
type Manager struct {
	durable  storage.Store
	sink     attribution.EventSink
	currency string
	idle     time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager over the durable store.
func NewManager(durable storage.Store, sink attribution.EventSink, checkoutCfg config.Checkout, sessionCfg config.Session, log *zap.Logger) *Manager {
	idle := time.Duration(sessionCfg.IdleTimeoutMin) * time.Minute
	if idle <= 0 {
		idle = 30 * time.Minute
	}

	return &Manager{
		durable:  durable,
		sink:     sink,
		currency: checkoutCfg.Currency,
		idle:     idle,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Session returns the live session for sessionID, creating it if needed.
// visitorID namespaces the durable keys so a returning visitor's cart and
// identity survive session turnover.
func (m *Manager) Session(ctx context.Context, sessionID, visitorID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = time.Now()
		return s
	}

	prefix := "visitor:" + visitorID
	sessionStore := storage.NewMemoryStore()

	s := &Session{
		ID:          sessionID,
		VisitorID:   visitorID,
		Cart:        cart.NewStore(ctx, m.durable, prefix+":cart", m.log),
		Attribution: attribution.NewEngine(m.durable, sessionStore, prefix, m.currency, m.sink, m.log),
		lastSeen:    time.Now(),
	}
	m.sessions[sessionID] = s

	m.log.Info("Session started",
		zap.String("session_id", sessionID),
		zap.String("visitor_id", visitorID))

	return s
}

// Sweep drops sessions idle longer than the configured timeout and returns
// how many went. Dropping a session discards its session store, which is
// what clears captured click ids at session end.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned int
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idle {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Run sweeps idle sessions periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Session manager shutting down")
			return
		case now := <-ticker.C:
			if pruned := m.Sweep(now); pruned > 0 {
				m.log.Info("Pruned idle sessions", zap.Int("count", pruned))
			}
		}
	}
}
