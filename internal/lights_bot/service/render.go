package service

import (
	"errors"
	"strings"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// keyboard converts a menu into an inline keyboard.
func keyboard(menu models.Menu) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu.Rows))
	for _, row := range menu.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Code))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// editMenu builds the edit request replacing the message the callback came from.
func editMenu(query *tgbotapi.CallbackQuery, menu models.Menu) tgbotapi.EditMessageTextConfig {
	markup := keyboard(menu)
	if query.Message == nil {
		return tgbotapi.EditMessageTextConfig{
			BaseEdit: tgbotapi.BaseEdit{
				InlineMessageID: query.InlineMessageID,
				ReplyMarkup:     &markup,
			},
			Text: menu.Title,
		}
	}
	return tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, menu.Title, markup)
}

// isNotModified reports whether Telegram refused an edit because the message
// already shows the same text and keyboard.
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Message, "message is not modified")
	}
	var apiVal tgbotapi.Error
	if errors.As(err, &apiVal) {
		return strings.Contains(apiVal.Message, "message is not modified")
	}
	return false
}
