// internal/infra/telegram/handlers.go
package telegram

import (
	"join_request_bot/internal/app"
	"join_request_bot/internal/domain/category"
	domainTelegram "join_request_bot/internal/domain/telegram"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func applicantFrom(c telebot.Context) app.Applicant {
	sender := c.Sender()
	return app.Applicant{
		ID:        sender.ID,
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
	}
}

// categoryMenu builds the entry keyboard, one category per row.
func categoryMenu(catalog category.Catalog) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton
	for _, cat := range catalog.All() {
		rows = append(rows, []telebot.InlineButton{
			{Text: cat.Label, Data: domainTelegram.CategoryData(cat.Key)},
		})
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

func backMenu() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{
		{{Text: messages.BackButton, Data: domainTelegram.DataBack}},
	}}
}

func completeMenu() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{
		{{Text: messages.CompleteButton, Data: domainTelegram.DataComplete}},
		{{Text: messages.BackButton, Data: domainTelegram.DataBack}},
	}}
}

// ack answers the callback query so the client stops its spinner. A
// failure here is cosmetic and never propagates.
func ack(c telebot.Context, text string, log *logrus.Entry) {
	if err := c.Respond(&telebot.CallbackResponse{Text: text}); err != nil {
		log.WithError(err).Debug("Failed to answer callback query")
	}
}

// SetBotCommands publishes the command menu shown in Telegram clients.
func SetBotCommands(b *telebot.Bot, log *logrus.Entry) {
	commands := []telebot.Command{
		{Text: "start", Description: messages.CommandStartDesc},
		{Text: "cancel", Description: messages.CommandCancelDesc},
		{Text: "register", Description: messages.CommandRegisterDesc},
		{Text: "help", Description: messages.CommandHelpDesc},
	}
	if err := b.SetCommands(commands); err != nil {
		log.WithError(err).Error("Failed to set bot commands")
	}
}
