package bot

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"meo-pos/internal/client"
	"meo-pos/internal/config"
	"meo-pos/internal/events"
	"meo-pos/internal/menu"
	"meo-pos/internal/models"
	"meo-pos/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 1}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// lastText returns the text of the most recent message or edit.
func (f *fakeSender) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		switch m := f.sent[i].(type) {
		case tgbotapi.MessageConfig:
			return m.Text
		case tgbotapi.EditMessageTextConfig:
			return m.Text
		}
	}
	return ""
}

type stubMenuAPI struct {
	items   []models.MenuItem
	err     error
	created []models.MenuItemPayload
	updated map[int64]models.MenuItemPayload
	deleted []int64
}

func (s *stubMenuAPI) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func (s *stubMenuAPI) CreateMenuItem(ctx context.Context, payload models.MenuItemPayload) (models.MenuItem, error) {
	if s.err != nil {
		return models.MenuItem{}, s.err
	}
	s.created = append(s.created, payload)
	item := models.MenuItem{ID: int64(len(s.items) + 100), Name: payload.Name, Price: payload.Price}
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubMenuAPI) UpdateMenuItem(ctx context.Context, id int64, payload models.MenuItemPayload) (models.MenuItem, error) {
	if s.err != nil {
		return models.MenuItem{}, s.err
	}
	if s.updated == nil {
		s.updated = make(map[int64]models.MenuItemPayload)
	}
	s.updated[id] = payload
	return models.MenuItem{ID: id, Name: payload.Name, Price: payload.Price}, nil
}

func (s *stubMenuAPI) DeleteMenuItem(ctx context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubOrderAPI struct {
	reqs []models.OrderRequest
	conf models.OrderConfirmation
	err  error
}

func (s *stubOrderAPI) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderConfirmation, error) {
	if s.err != nil {
		return models.OrderConfirmation{}, s.err
	}
	s.reqs = append(s.reqs, req)
	return s.conf, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Basket: config.BasketConfig{TaxRateBps: 800, ClickGuardMs: 250},
		Bot:    config.BotConfig{PaginationSize: 8, RateLimitMessages: 1000, RateLimitWindow: 1},
		Admins: []int64{42},
	}
}

func newTestBot(menuAPI *stubMenuAPI, orderAPI *stubOrderAPI) (*Bot, *fakeSender) {
	logger := zerolog.Nop()
	sender := &fakeSender{}

	b := &Bot{
		tg:          sender,
		config:      testConfig(),
		menuAPI:     menuAPI,
		orderAPI:    orderAPI,
		menu:        menu.NewStore(),
		sessions:    newSessionManager(config.BasketConfig{TaxRateBps: 800, ClickGuardMs: 250}),
		sessionRepo: repository.NewMemorySessionRepository(time.Hour),
		eventBus:    events.NewEventBus(),
		limiter:     newChatLimiter(config.BotConfig{RateLimitMessages: 1000, RateLimitWindow: 1}),
		logger:      &logger,
	}
	return b, sender
}

func addCallback(chatID int64, userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: userID},
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 7,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
		},
	}
}

func menuItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Cà phê sữa", Price: 25000},
		{ID: 2, Name: "Bánh mì", Price: 20000},
	}
}

func TestAddCallbackFillsBasket(t *testing.T) {
	b, _ := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	b.handleCallback(context.Background(), addCallback(10, 10, "add:1"))

	sess := b.sessions.get(10)
	assert.Equal(t, int64(1), sess.basket.Units())
}

func TestRapidTapsAreSuppressed(t *testing.T) {
	b, _ := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	// Two back-to-back taps land well inside the 250ms window; the
	// second is dropped. A different item is not affected.
	b.handleCallback(context.Background(), addCallback(10, 10, "add:1"))
	b.handleCallback(context.Background(), addCallback(10, 10, "add:1"))
	b.handleCallback(context.Background(), addCallback(10, 10, "add:2"))

	sess := b.sessions.get(10)
	assert.Equal(t, int64(2), sess.basket.Units())
	assert.Equal(t, 2, sess.basket.Len())
}

func TestQuickAddFiveIsGuardedPerAttempt(t *testing.T) {
	b, _ := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	// Each of the five attempts passes through the guard; inside the
	// window only the first lands.
	b.handleCallback(context.Background(), addCallback(10, 10, "add5:2"))

	sess := b.sessions.get(10)
	assert.Equal(t, int64(1), sess.basket.Units())
	assert.Equal(t, 1, sess.basket.Len())
}

func TestSubmitOrderSuccess(t *testing.T) {
	orderAPI := &stubOrderAPI{conf: models.OrderConfirmation{ID: 55}}
	b, sender := newTestBot(&stubMenuAPI{items: menuItems()}, orderAPI)
	require.NoError(t, b.loadMenu(context.Background()))

	var published []events.OrderCreatedPayload
	b.eventBus.(*events.EventBus).Subscribe(events.EventOrderCreated, func(e *events.Event) error {
		var p events.OrderCreatedPayload
		require.NoError(t, json.Unmarshal(e.Payload, &p))
		published = append(published, p)
		return nil
	})

	sess := b.sessions.get(10)
	sessionID := sess.id
	b.handleCallback(context.Background(), addCallback(10, 10, "add:1"))
	b.handleCallback(context.Background(), addCallback(10, 10, "add:2"))
	for i := 0; i < 4; i++ {
		b.handleCallback(context.Background(), addCallback(10, 10, "inc:2"))
	}

	b.submitOrder(context.Background(), 10, 7)

	require.Len(t, orderAPI.reqs, 1)
	req := orderAPI.reqs[0]
	require.Len(t, req.Items, 2)
	assert.Equal(t, int64(1), req.Items[0].MenuItemID)
	assert.Equal(t, int64(2), req.Items[1].MenuItemID)
	assert.Equal(t, int64(5), req.Items[1].Quantity)
	assert.Equal(t, "pos", req.Meta["source"])
	assert.Equal(t, sessionID, req.Meta["session_id"])

	// Session renewed: fresh basket, fresh id.
	fresh := b.sessions.get(10)
	assert.Zero(t, fresh.basket.Units())
	assert.NotEqual(t, sessionID, fresh.id)

	require.Len(t, published, 1)
	assert.Equal(t, int64(55), published[0].RemoteID)
	assert.Equal(t, int64(125000), published[0].Subtotal)
	assert.Equal(t, int64(10000), published[0].Tax)
	assert.Equal(t, int64(135000), published[0].Total)

	assert.Contains(t, sender.lastText(), "Order #55")
}

func TestSubmitOrderFailureKeepsBasket(t *testing.T) {
	orderAPI := &stubOrderAPI{err: &client.RequestError{
		URL: "http://api/api/orders", StatusCode: 500, Status: "Internal Server Error", Body: "boom",
	}}
	b, sender := newTestBot(&stubMenuAPI{items: menuItems()}, orderAPI)
	require.NoError(t, b.loadMenu(context.Background()))

	b.handleCallback(context.Background(), addCallback(10, 10, "add:1"))
	sess := b.sessions.get(10)
	sessionID := sess.id

	b.submitOrder(context.Background(), 10, 7)

	assert.Equal(t, int64(1), sess.basket.Units())
	assert.Equal(t, sessionID, b.sessions.get(10).id)
	assert.Contains(t, sender.lastText(), "500")
	assert.Contains(t, sender.lastText(), "boom")
}

func TestSubmitEmptyBasket(t *testing.T) {
	b, sender := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})

	b.submitOrder(context.Background(), 10, 0)

	assert.Contains(t, sender.lastText(), "Basket is empty")
}

func TestBasketControls(t *testing.T) {
	b, _ := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	sess := b.sessions.get(10)
	item, _ := b.menu.Get(1)
	sess.basket.Add(item)

	b.handleCallback(context.Background(), addCallback(10, 10, "inc:1"))
	assert.Equal(t, int64(2), sess.basket.Units())

	b.handleCallback(context.Background(), addCallback(10, 10, "dec:1"))
	b.handleCallback(context.Background(), addCallback(10, 10, "dec:1"))
	assert.Zero(t, sess.basket.Len())

	sess.basket.Add(item)
	b.handleCallback(context.Background(), addCallback(10, 10, "basket_clear"))
	assert.Zero(t, sess.basket.Len())
}

func TestAdminOnlyCommands(t *testing.T) {
	b, sender := newTestBot(&stubMenuAPI{items: menuItems()}, &stubOrderAPI{})

	b.handleAdmin(context.Background(), 10, 10)
	assert.Contains(t, sender.lastText(), "admins only")

	b.handleExport(context.Background(), 10, 10)
	assert.Contains(t, sender.lastText(), "admins only")
}

func TestAdminCreateItemFlow(t *testing.T) {
	menuAPI := &stubMenuAPI{items: menuItems()}
	b, sender := newTestBot(menuAPI, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	ctx := context.Background()
	b.handleCallback(ctx, addCallback(10, 42, "adm_new"))
	b.handleAdminInput(ctx, 10, 42, "Trà đào")
	b.handleAdminInput(ctx, 10, 42, "25.000")

	require.Len(t, menuAPI.created, 1)
	assert.Equal(t, "Trà đào", menuAPI.created[0].Name)
	assert.Equal(t, int64(25000), menuAPI.created[0].Price)
	assert.Contains(t, sender.lastText(), "Menu admin")

	// Dialog finished; further text is ignored.
	assert.Nil(t, b.getSessionState(ctx, 10))
}

func TestAdminEditItemFlow(t *testing.T) {
	menuAPI := &stubMenuAPI{items: menuItems()}
	b, _ := newTestBot(menuAPI, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	ctx := context.Background()
	b.handleCallback(ctx, addCallback(10, 42, "adm_edit:1"))
	b.handleAdminInput(ctx, 10, 42, "Cà phê đen")
	b.handleAdminInput(ctx, 10, 42, "garbage price")

	require.Contains(t, menuAPI.updated, int64(1))
	assert.Equal(t, "Cà phê đen", menuAPI.updated[1].Name)
	// Lenient parse: unparseable price becomes zero.
	assert.Zero(t, menuAPI.updated[1].Price)
}

func TestAdminDeleteNeedsConfirmation(t *testing.T) {
	menuAPI := &stubMenuAPI{items: menuItems()}
	b, _ := newTestBot(menuAPI, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	ctx := context.Background()
	b.handleCallback(ctx, addCallback(10, 42, "adm_del:1"))
	assert.Empty(t, menuAPI.deleted)

	b.handleCallback(ctx, addCallback(10, 42, "adm_del_yes:1"))
	assert.Equal(t, []int64{1}, menuAPI.deleted)
}

func TestAdminCallbackRejectsNonAdmin(t *testing.T) {
	menuAPI := &stubMenuAPI{items: menuItems()}
	b, _ := newTestBot(menuAPI, &stubOrderAPI{})
	require.NoError(t, b.loadMenu(context.Background()))

	b.handleCallback(context.Background(), addCallback(10, 10, "adm_del_yes:1"))
	assert.Empty(t, menuAPI.deleted)
}

func TestChatLimiter(t *testing.T) {
	l := newChatLimiter(config.BotConfig{RateLimitMessages: 3, RateLimitWindow: 60})

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow(1))
	}
	assert.False(t, l.allow(1))
	// Other users are unaffected.
	assert.True(t, l.allow(2))
}
