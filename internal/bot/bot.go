package bot

import (
	"context"
	"os"
	"time"

	"meo-pos/internal/config"
	"meo-pos/internal/domain"
	"meo-pos/internal/events"
	"meo-pos/internal/menu"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Bot is the Telegram front end: a sales flow for building and submitting
// baskets, and an admin flow for menu CRUD. All writes go through the
// backend API; the bot itself owns no menu data beyond a snapshot.
type Bot struct {
	tg          domain.TelegramSender
	api         *tgbotapi.BotAPI
	config      *config.Config
	menuAPI     domain.MenuAPI
	orderAPI    domain.OrderAPI
	menu        *menu.Store
	sessions    *sessionManager
	sessionRepo domain.SessionRepository
	journal     domain.Journal
	eventBus    domain.EventPublisher
	limiter     *chatLimiter
	metrics     *Metrics
	logger      *zerolog.Logger
}

func NewBot(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	menuAPI domain.MenuAPI,
	orderAPI domain.OrderAPI,
	sessionRepo domain.SessionRepository,
	journal domain.Journal,
	eventBus domain.EventPublisher,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tg:          api,
		api:         api,
		config:      cfg,
		menuAPI:     menuAPI,
		orderAPI:    orderAPI,
		menu:        menu.NewStore(),
		sessions:    newSessionManager(cfg.Basket),
		sessionRepo: sessionRepo,
		journal:     journal,
		eventBus:    eventBus,
		limiter:     newChatLimiter(cfg.Bot),
		metrics:     metrics,
		logger:      logger,
	}, nil
}

// Start runs the update loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.withRecovery(func() {
				start := time.Now()
				b.handleUpdate(ctx, update)
				if b.metrics != nil {
					b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
				}
			})
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From == nil || update.CallbackQuery.Message == nil {
			return
		}
		if !b.limiter.allow(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallback(ctx, update)
	case update.Message != nil:
		if update.Message.From == nil {
			return
		}
		if !b.limiter.allow(update.Message.From.ID) {
			return
		}
		b.handleMessage(ctx, update)
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	if b.metrics != nil {
		b.metrics.MessagesProcessed.Inc()
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	// Free-form text only matters inside an admin dialog step.
	b.handleAdminInput(ctx, chatID, msg.From.ID, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	chatID := msg.Chat.ID

	if b.metrics != nil {
		b.metrics.CommandsProcessed.Inc()
	}

	switch msg.Command() {
	case "start", "menu":
		b.clearSessionState(ctx, chatID)
		b.handleSales(ctx, chatID)
	case "basket":
		b.sendBasket(ctx, chatID, 0)
	case "admin":
		b.handleAdmin(ctx, chatID, msg.From.ID)
	case "export":
		b.handleExport(ctx, chatID, msg.From.ID)
	default:
		b.sendMessage(chatID, "Unknown command. Try /menu, /basket or /admin.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery

	// Answer right away to clear the spinner; a few handlers answer again
	// with a toast and that second answer simply wins.
	b.answerCallback(callback.ID, "")

	if b.handleSalesCallback(ctx, update) {
		return
	}
	b.handleAdminCallback(ctx, update)
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, adminID := range b.config.Admins {
		if userID == adminID {
			return true
		}
	}
	return false
}
