package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"meo-pos/internal/basket"
	"meo-pos/internal/events"
	"meo-pos/internal/metrics"
	"meo-pos/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// loadMenu fetches a fresh snapshot from the backend. The store discards
// the result if a fetch that started later already finished.
func (b *Bot) loadMenu(ctx context.Context) error {
	seq := b.menu.Begin()

	items, err := b.menuAPI.FetchMenu(ctx)
	if err != nil {
		return err
	}

	if !b.menu.Complete(seq, items) {
		b.logger.Debug().Uint64("seq", seq).Msg("Discarded stale menu fetch")
	}
	return nil
}

func (b *Bot) ensureMenu(ctx context.Context) error {
	if b.menu.Len() > 0 {
		return nil
	}
	return b.loadMenu(ctx)
}

func (b *Bot) handleSales(ctx context.Context, chatID int64) {
	if err := b.ensureMenu(ctx); err != nil {
		b.sendMessage(chatID, errorMessage(err))
		return
	}
	b.sendMenuPage(ctx, chatID, 0, 0)
}

// sendMenuPage renders one page of the menu with add buttons. A non-zero
// messageID edits that message in place.
func (b *Bot) sendMenuPage(ctx context.Context, chatID int64, messageID, page int) {
	items := b.menu.Items()
	if len(items) == 0 {
		b.sendMessage(chatID, "The menu is empty. Ask an admin to add items with /admin.")
		return
	}

	pageSize := b.config.Bot.PaginationSize
	totalPages := (len(items) + pageSize - 1) / pageSize
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	startIdx := page * pageSize
	endIdx := startIdx + pageSize
	if endIdx > len(items) {
		endIdx = len(items)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items[startIdx:endIdx] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s · %s", item.Name, formatVND(item.Price)),
				fmt.Sprintf("add:%d", item.ID),
			),
			tgbotapi.NewInlineKeyboardButtonData("+5", fmt.Sprintf("add5:%d", item.ID)),
		))
	}

	if totalPages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("menu_page:%d", page-1)))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", page+1, totalPages), "noop"))
		if page < totalPages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("menu_page:%d", page+1)))
		}
		rows = append(rows, nav)
	}

	sess := b.sessions.get(chatID)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("🧺 Basket (%d)", sess.basket.Units()), "basket_show"),
		tgbotapi.NewInlineKeyboardButtonData("🔄", "menu_refresh"),
	))

	text := "🍜 Menu\nTap an item to add it, +5 for a batch."
	b.editOrSend(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// handleSalesCallback consumes sales-flow callbacks and reports whether
// the data matched one.
func (b *Bot) handleSalesCallback(ctx context.Context, update tgbotapi.Update) bool {
	callback := update.CallbackQuery
	data := callback.Data
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch {
	case data == "noop":

	case strings.HasPrefix(data, "menu_page:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "menu_page:"))
		b.sendMenuPage(ctx, chatID, messageID, page)

	case data == "menu_refresh":
		if err := b.loadMenu(ctx); err != nil {
			b.answerCallback(callback.ID, "Refresh failed")
			b.sendMessage(chatID, errorMessage(err))
			return true
		}
		b.sendMenuPage(ctx, chatID, messageID, 0)

	case strings.HasPrefix(data, "add:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "add:"), 10, 64)
		b.handleAdd(ctx, callback, itemID, 1)

	case strings.HasPrefix(data, "add5:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "add5:"), 10, 64)
		b.handleAdd(ctx, callback, itemID, 5)

	case data == "basket_show":
		b.sendBasket(ctx, chatID, messageID)

	case strings.HasPrefix(data, "inc:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "inc:"), 10, 64)
		b.sessions.get(chatID).basket.Increment(itemID)
		b.sendBasket(ctx, chatID, messageID)

	case strings.HasPrefix(data, "dec:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "dec:"), 10, 64)
		b.sessions.get(chatID).basket.Decrement(itemID)
		b.sendBasket(ctx, chatID, messageID)

	case strings.HasPrefix(data, "rm:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "rm:"), 10, 64)
		b.sessions.get(chatID).basket.Remove(itemID)
		b.sendBasket(ctx, chatID, messageID)

	case data == "basket_clear":
		b.sessions.get(chatID).basket.Clear()
		b.sendBasket(ctx, chatID, messageID)

	case data == "order_submit":
		b.submitOrder(ctx, chatID, messageID)

	default:
		return false
	}
	return true
}

// handleAdd runs qty add attempts for an item, each one checked against
// the click guard. Attempts falling inside the guard window are dropped
// silently, so a quick-add batch right after a tap lands as a single unit.
func (b *Bot) handleAdd(ctx context.Context, callback *tgbotapi.CallbackQuery, itemID, qty int64) {
	chatID := callback.Message.Chat.ID

	item, ok := b.menu.Get(itemID)
	if !ok {
		b.answerCallback(callback.ID, "That item is no longer on the menu")
		if err := b.loadMenu(ctx); err == nil {
			b.sendMenuPage(ctx, chatID, callback.Message.MessageID, 0)
		}
		return
	}

	sess := b.sessions.get(chatID)
	var added int64
	for i := int64(0); i < qty; i++ {
		if !sess.guard.Allow(itemID) {
			metrics.IncGuardDropped()
			continue
		}
		sess.basket.Add(item)
		added++
	}
	if added == 0 {
		return
	}

	b.answerCallback(callback.ID, fmt.Sprintf("%s ×%d added", item.Name, added))
	b.sendMenuPage(ctx, chatID, callback.Message.MessageID, 0)
}

// sendBasket renders the basket with per-line controls and totals.
func (b *Bot) sendBasket(ctx context.Context, chatID int64, messageID int) {
	sess := b.sessions.get(chatID)
	lines := sess.basket.Lines()

	if len(lines) == 0 {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⬅️ Menu", "menu_page:0"),
			),
		)
		b.editOrSend(chatID, messageID, "🧺 Basket is empty.", keyboard)
		return
	}

	var sb strings.Builder
	sb.WriteString("🧺 Basket\n\n")
	for i, line := range lines {
		fmt.Fprintf(&sb, "%d. %s ×%d — %s\n", i+1, line.Item.Name, line.Qty, formatVND(line.Item.Price*line.Qty))
	}
	fmt.Fprintf(&sb, "\nSubtotal: %s\n", formatVND(sess.basket.Subtotal()))
	fmt.Fprintf(&sb, "Tax (%s): %s\n", formatTaxRate(b.config.Basket.TaxRateBps), formatVND(sess.basket.Tax()))
	fmt.Fprintf(&sb, "Total: %s", formatVND(sess.basket.Total()))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, line := range lines {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("−", fmt.Sprintf("dec:%d", line.Item.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s ×%d", line.Item.Name, line.Qty), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("+", fmt.Sprintf("inc:%d", line.Item.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("rm:%d", line.Item.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", "basket_clear"),
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Menu", "menu_page:0"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Submit order", "order_submit"),
		),
	)

	b.editOrSend(chatID, messageID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// submitOrder sends the basket to the backend exactly once. On failure the
// basket is left untouched so the cashier can retry; it is cleared only
// after the backend confirms.
func (b *Bot) submitOrder(ctx context.Context, chatID int64, messageID int) {
	sess := b.sessions.get(chatID)

	req, err := sess.basket.OrderRequest(map[string]string{
		"source":     models.OrderSource,
		"session_id": sess.id,
	})
	if err != nil {
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	subtotal := sess.basket.Subtotal()
	tax := sess.basket.Tax()
	total := sess.basket.Total()
	lines := sess.basket.Lines()

	conf, err := b.orderAPI.CreateOrder(ctx, req)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Order submission failed")
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	entry := &models.JournalEntry{
		RemoteID:  conf.ID,
		SessionID: sess.id,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Lines:     journalLines(lines),
		CreatedAt: time.Now(),
	}

	if b.journal != nil {
		if err := b.journal.RecordOrder(ctx, entry); err != nil {
			b.logger.Error().Err(err).Int64("remote_id", conf.ID).Msg("Error recording order in journal")
		}
	}

	if err := b.eventBus.PublishJSON(events.EventOrderCreated, events.OrderCreatedPayload{
		RemoteID:  entry.RemoteID,
		SessionID: entry.SessionID,
		Subtotal:  entry.Subtotal,
		Tax:       entry.Tax,
		Total:     entry.Total,
		Lines:     entry.Lines,
		CreatedAt: entry.CreatedAt,
	}); err != nil {
		b.logger.Warn().Err(err).Msg("Error publishing order event")
	}

	if b.metrics != nil {
		b.metrics.OrdersCreated.Inc()
		b.metrics.OrderTotal.Observe(float64(total))
	}

	b.logger.Info().
		Int64("chat_id", chatID).
		Int64("remote_id", conf.ID).
		Int64("total", total).
		Msg("Order submitted")

	b.sessions.renew(chatID)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍜 New order", "menu_page:0"),
		),
	)
	text := fmt.Sprintf("✅ Order #%d submitted\nTotal: %s", conf.ID, formatVND(total))
	b.editOrSend(chatID, messageID, text, keyboard)
}

func journalLines(lines []basket.Line) []models.JournalLine {
	out := make([]models.JournalLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.JournalLine{
			MenuItemID: l.Item.ID,
			Name:       l.Item.Name,
			Price:      l.Item.Price,
			Qty:        l.Qty,
		})
	}
	return out
}
