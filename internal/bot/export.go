package bot

import (
	"context"
	"fmt"
	"time"

	"meo-pos/internal/export"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleExport builds today's sales workbook from the journal and sends
// it as a document.
func (b *Bot) handleExport(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(userID) {
		b.sendMessage(chatID, "This command is for admins only.")
		return
	}
	if b.journal == nil {
		b.sendMessage(chatID, "The sales journal is not configured.")
		return
	}

	day := time.Now()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	entries, err := b.journal.OrdersBetween(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		b.logger.Error().Err(err).Msg("Error reading journal for export")
		b.sendMessage(chatID, "Could not read the sales journal.")
		return
	}

	path, err := export.SalesReport(entries, b.config.Exports.Path, day)
	if err != nil {
		b.logger.Error().Err(err).Msg("Error building sales report")
		b.sendMessage(chatID, "Could not build the report file.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("Sales for %s — %d orders", day.Format("02.01.2006"), len(entries))
	if _, err := b.tg.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("Error sending report document")
		b.sendMessage(chatID, "Could not send the report file.")
	}
}
