package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"meo-pos/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Error sending message")
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Error sending message")
	}
}

// editOrSend edits an existing bot message in place, falling back to a new
// message when there is nothing to edit.
func (b *Bot) editOrSend(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		b.sendWithKeyboard(chatID, text, keyboard)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ReplyMarkup = &keyboard
	if _, err := b.tg.Send(edit); err != nil {
		b.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Edit failed, sending new message")
		b.sendWithKeyboard(chatID, text, keyboard)
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.tg.Request(callback); err != nil {
		b.logger.Debug().Err(err).Msg("Error answering callback")
	}
}

func (b *Bot) getSessionState(ctx context.Context, chatID int64) *models.SessionState {
	if b.sessionRepo == nil {
		return nil
	}
	state, err := b.sessionRepo.GetSession(ctx, chatID)
	if err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Error loading session state")
		return nil
	}
	return state
}

func (b *Bot) setSessionState(ctx context.Context, state *models.SessionState) {
	if b.sessionRepo == nil {
		return
	}
	if err := b.sessionRepo.SetSession(ctx, state); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", state.ChatID).Msg("Error saving session state")
	}
}

func (b *Bot) clearSessionState(ctx context.Context, chatID int64) {
	if b.sessionRepo == nil {
		return
	}
	if err := b.sessionRepo.ClearSession(ctx, chatID); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Error clearing session state")
	}
}

// formatVND renders minor units with dot separators, e.g. 25000 -> "25.000 ₫".
func formatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out + " ₫"
}

// formatTaxRate renders basis points as a percentage, e.g. 800 -> "8%".
func formatTaxRate(bps int64) string {
	if bps%100 == 0 {
		return fmt.Sprintf("%d%%", bps/100)
	}
	return strings.TrimRight(fmt.Sprintf("%.2f", float64(bps)/100), "0") + "%"
}

// parsePrice reads a price typed by an admin. Separators and currency
// marks are tolerated; anything that still fails to parse, or a negative
// value, becomes 0 rather than an error.
func parsePrice(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(".", "", ",", "", " ", "", "₫", "", "đ", "", "d", "").Replace(s)

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
