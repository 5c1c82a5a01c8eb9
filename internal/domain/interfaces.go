package domain

import (
	"context"
	"time"

	"meo-pos/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuAPI is the backend menu resource. Errors from the HTTP layer pass
// through unchanged.
type MenuAPI interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, payload models.MenuItemPayload) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, payload models.MenuItemPayload) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
}

// OrderAPI is the backend order resource.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderConfirmation, error)
}

// SessionRepository stores per-chat dialog state. Implementations exist
// for memory, redis and a failover combination of the two.
type SessionRepository interface {
	GetSession(ctx context.Context, chatID int64) (*models.SessionState, error)
	SetSession(ctx context.Context, state *models.SessionState) error
	ClearSession(ctx context.Context, chatID int64) error
}

// EventPublisher fans out domain events in-process.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Journal records successfully submitted orders locally.
type Journal interface {
	RecordOrder(ctx context.Context, entry *models.JournalEntry) error
	OrdersBetween(ctx context.Context, start, end time.Time) ([]*models.JournalEntry, error)
}

// SheetsAppender mirrors submitted orders into a spreadsheet.
type SheetsAppender interface {
	AppendSale(ctx context.Context, entry *models.JournalEntry) error
}

// TelegramSender is the subset of the bot API the handlers need.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
