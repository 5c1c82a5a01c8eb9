package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"meo-pos/internal/events"
	"meo-pos/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleAdmin(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(userID) {
		b.sendMessage(chatID, "This command is for admins only.")
		return
	}

	b.clearSessionState(ctx, chatID)

	if err := b.loadMenu(ctx); err != nil {
		b.sendMessage(chatID, errorMessage(err))
		return
	}
	b.sendAdminList(ctx, chatID, 0)
}

// sendAdminList renders the menu with edit and delete controls.
func (b *Bot) sendAdminList(ctx context.Context, chatID int64, messageID int) {
	items := b.menu.Items()

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s · %s", item.Name, formatVND(item.Price)),
				fmt.Sprintf("adm_edit:%d", item.ID),
			),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("adm_del:%d", item.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ New item", "adm_new"),
		tgbotapi.NewInlineKeyboardButtonData("🔄", "adm_reload"),
	))

	text := fmt.Sprintf("🛠 Menu admin — %d items\nTap an item to edit it.", len(items))
	b.editOrSend(chatID, messageID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleAdminCallback(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if !strings.HasPrefix(data, "adm_") {
		b.logger.Debug().Str("data", data).Msg("Unknown callback data")
		return
	}
	if !b.isAdmin(callback.From.ID) {
		b.answerCallback(callback.ID, "Admins only")
		return
	}

	switch {
	case data == "adm_new":
		b.setSessionState(ctx, &models.SessionState{
			ChatID: chatID,
			Step:   models.StepEnterName,
			Data:   map[string]interface{}{},
		})
		b.sendMessage(chatID, "Send the name for the new item.")

	case strings.HasPrefix(data, "adm_edit:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "adm_edit:"), 10, 64)
		item, ok := b.menu.Get(itemID)
		if !ok {
			b.answerCallback(callback.ID, "Item not found")
			return
		}
		b.setSessionState(ctx, &models.SessionState{
			ChatID: chatID,
			Step:   models.StepEnterName,
			Data:   map[string]interface{}{"item_id": itemID},
		})
		b.sendMessage(chatID, fmt.Sprintf("Editing %q. Send the new name.", item.Name))

	case strings.HasPrefix(data, "adm_del:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "adm_del:"), 10, 64)
		item, ok := b.menu.Get(itemID)
		if !ok {
			b.answerCallback(callback.ID, "Item not found")
			return
		}
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Yes, delete", fmt.Sprintf("adm_del_yes:%d", itemID)),
				tgbotapi.NewInlineKeyboardButtonData("Cancel", "adm_del_no"),
			),
		)
		b.editOrSend(chatID, messageID, fmt.Sprintf("Delete %q from the menu?", item.Name), keyboard)

	case strings.HasPrefix(data, "adm_del_yes:"):
		itemID, _ := strconv.ParseInt(strings.TrimPrefix(data, "adm_del_yes:"), 10, 64)
		if err := b.menuAPI.DeleteMenuItem(ctx, itemID); err != nil {
			b.sendMessage(chatID, errorMessage(err))
			return
		}
		b.publishMenuChanged("delete", itemID)
		if err := b.loadMenu(ctx); err != nil {
			b.sendMessage(chatID, errorMessage(err))
			return
		}
		b.sendAdminList(ctx, chatID, messageID)

	case data == "adm_del_no":
		b.sendAdminList(ctx, chatID, messageID)

	case data == "adm_reload":
		if err := b.loadMenu(ctx); err != nil {
			b.sendMessage(chatID, errorMessage(err))
			return
		}
		b.sendAdminList(ctx, chatID, messageID)

	default:
		b.logger.Debug().Str("data", data).Msg("Unknown admin callback data")
	}
}

// handleAdminInput advances the create/edit dialog with free-form text.
func (b *Bot) handleAdminInput(ctx context.Context, chatID, userID int64, text string) {
	state := b.getSessionState(ctx, chatID)
	if state == nil {
		return
	}
	if !b.isAdmin(userID) {
		return
	}

	switch state.Step {
	case models.StepEnterName:
		name := strings.TrimSpace(text)
		if name == "" {
			b.sendMessage(chatID, "The name cannot be empty. Send the item name.")
			return
		}
		if state.Data == nil {
			state.Data = map[string]interface{}{}
		}
		state.Data["draft_name"] = name
		state.Step = models.StepEnterPrice
		b.setSessionState(ctx, state)
		b.sendMessage(chatID, "Now send the price in ₫, e.g. 25000 or 25.000.")

	case models.StepEnterPrice:
		payload := models.MenuItemPayload{
			Name:  state.GetString("draft_name"),
			Price: parsePrice(text),
		}

		itemID := state.GetInt64("item_id")
		var (
			saved models.MenuItem
			err   error
		)
		if itemID > 0 {
			saved, err = b.menuAPI.UpdateMenuItem(ctx, itemID, payload)
		} else {
			saved, err = b.menuAPI.CreateMenuItem(ctx, payload)
		}
		if err != nil {
			// Keep the step so the admin can just resend the price.
			b.sendMessage(chatID, errorMessage(err))
			return
		}

		b.clearSessionState(ctx, chatID)

		action := "create"
		if itemID > 0 {
			action = "update"
		}
		b.publishMenuChanged(action, saved.ID)

		if err := b.loadMenu(ctx); err != nil {
			b.sendMessage(chatID, errorMessage(err))
			return
		}

		b.sendMessage(chatID, fmt.Sprintf("Saved %s · %s", saved.Name, formatVND(saved.Price)))
		b.sendAdminList(ctx, chatID, 0)
	}
}

func (b *Bot) publishMenuChanged(action string, itemID int64) {
	if err := b.eventBus.PublishJSON(events.EventMenuChanged, events.MenuChangedPayload{
		Action: action,
		ItemID: itemID,
	}); err != nil {
		b.logger.Warn().Err(err).Msg("Error publishing menu event")
	}
}
