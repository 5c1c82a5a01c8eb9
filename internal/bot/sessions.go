package bot

import (
	"sync"
	"time"

	"meo-pos/internal/basket"
	"meo-pos/internal/config"

	"github.com/google/uuid"
)

// chatSession is the in-process sales state for one chat: the basket, its
// click guard and an id that travels with the order meta. It lives only in
// memory; the repository layer stores dialog steps, never baskets.
type chatSession struct {
	id     string
	basket *basket.Basket
	guard  *basket.ClickGuard
}

type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*chatSession
	taxBps   int64
	window   time.Duration
}

func newSessionManager(cfg config.BasketConfig) *sessionManager {
	return &sessionManager{
		sessions: make(map[int64]*chatSession),
		taxBps:   cfg.TaxRateBps,
		window:   time.Duration(cfg.ClickGuardMs) * time.Millisecond,
	}
}

func (m *sessionManager) get(chatID int64) *chatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = m.newSession()
		m.sessions[chatID] = s
	}
	return s
}

// renew replaces the chat's session after a submitted order so the next
// order starts with a fresh basket and a new id.
func (m *sessionManager) renew(chatID int64) *chatSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.newSession()
	m.sessions[chatID] = s
	return s
}

func (m *sessionManager) newSession() *chatSession {
	return &chatSession{
		id:     uuid.NewString(),
		basket: basket.New(m.taxBps),
		guard:  basket.NewClickGuard(m.window),
	}
}
