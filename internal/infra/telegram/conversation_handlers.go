// internal/infra/telegram/conversation_handlers.go
package telegram

import (
	"context"
	"strings"

	"join_request_bot/internal/app"
	"join_request_bot/internal/domain/category"
	domainTelegram "join_request_bot/internal/domain/telegram"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterConversationHandlers binds the intake conversation: /start,
// /cancel, free text and every inline button press. Moderator decision
// callbacks land here too because Telegram delivers all callbacks through
// one update type.
func RegisterConversationHandlers(
	ctx context.Context,
	b *telebot.Bot,
	apps *app.ApplicationService,
	admin *app.AdminService,
	catalog category.Catalog,
	baseLogger *logrus.Entry,
) {
	convLogger := baseLogger.WithField("handler_group", "conversation")

	b.Handle("/start", func(c telebot.Context) error {
		sender := c.Sender()
		logCtx := convLogger.WithFields(logrus.Fields{"command": "/start", "sender_id": sender.ID})
		logCtx.Info("Processing /start command")

		if admin.IsModerator(sender.ID) {
			return c.Send(messages.AdminPanel(sender.FirstName), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		outcome, err := apps.Begin(ctx, applicantFrom(c))
		if err != nil {
			logCtx.WithError(err).Error("Failed to begin application")
			return c.Send(messages.TryAgainLater)
		}
		if outcome == app.BeginAlreadyPending {
			return c.Send(messages.PendingRequest)
		}
		return c.Send(messages.Welcome, &telebot.SendOptions{
			ReplyMarkup: categoryMenu(catalog),
			ParseMode:   telebot.ModeMarkdown,
		})
	})

	b.Handle("/cancel", func(c telebot.Context) error {
		convLogger.WithFields(logrus.Fields{"command": "/cancel", "sender_id": c.Sender().ID}).Info("Processing /cancel command")
		apps.Cancel(c.Sender().ID)
		return c.Send(messages.Cancelled)
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		text := c.Text()
		if strings.HasPrefix(text, "/") {
			return nil
		}
		if !apps.RecordAnswer(c.Sender().ID, text) {
			// No live conversation, stray text is ignored.
			return nil
		}
		return c.Send(messages.CompletePrompt(text), &telebot.SendOptions{ReplyMarkup: completeMenu()})
	})

	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		action := domainTelegram.ParseAction(c.Callback().Data)
		logCtx := convLogger.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "callback_data": c.Callback().Data})

		switch action.Kind {
		case domainTelegram.ActionSelectCategory:
			if !apps.SelectCategory(c.Sender().ID, action.CategoryKey) {
				ack(c, messages.UnknownAction, logCtx)
				return nil
			}
			prompt := category.FallbackPrompt
			if cat, ok := catalog.Get(action.CategoryKey); ok {
				prompt = cat.Prompt
			}
			ack(c, "", logCtx)
			return c.Edit(prompt, &telebot.SendOptions{ReplyMarkup: backMenu()})

		case domainTelegram.ActionBack:
			if !apps.Back(c.Sender().ID) {
				ack(c, messages.UnknownAction, logCtx)
				return nil
			}
			ack(c, "", logCtx)
			return c.Edit(messages.Welcome, &telebot.SendOptions{
				ReplyMarkup: categoryMenu(catalog),
				ParseMode:   telebot.ModeMarkdown,
			})

		case domainTelegram.ActionComplete:
			if _, err := apps.Complete(ctx, applicantFrom(c)); err != nil {
				if err == app.ErrNoActiveSession {
					ack(c, messages.UnknownAction, logCtx)
					return nil
				}
				logCtx.WithError(err).Error("Failed to complete application")
				ack(c, messages.TryAgainLater, logCtx)
				return nil
			}
			ack(c, "", logCtx)
			return c.Edit(messages.Submitted)

		case domainTelegram.ActionApprove:
			return handleDecision(ctx, c, admin, action, true, logCtx)

		case domainTelegram.ActionDecline:
			return handleDecision(ctx, c, admin, action, false, logCtx)

		default:
			logCtx.Warn("Unknown callback action")
			ack(c, messages.UnknownAction, logCtx)
			return nil
		}
	})
}

func handleDecision(
	ctx context.Context,
	c telebot.Context,
	admin *app.AdminService,
	action domainTelegram.Action,
	approve bool,
	logCtx *logrus.Entry,
) error {
	pressedMessageID := c.Callback().Message.ID

	var outcome app.DecisionOutcome
	if approve {
		outcome = admin.Approve(ctx, action.RequestID, pressedMessageID)
	} else {
		outcome = admin.Decline(ctx, action.RequestID, pressedMessageID)
	}

	switch outcome {
	case app.DecisionRequestNotFound:
		// The service already rewrote the stale moderator message.
		ack(c, messages.RequestNotFound, logCtx)
		return nil
	case app.DecisionAlreadyDecided:
		ack(c, messages.AlreadyProcessed, logCtx)
		return nil
	case app.DecisionFailed:
		ack(c, messages.TryAgainLater, logCtx)
		return nil
	default:
		ack(c, "", logCtx)
		return nil
	}
}
