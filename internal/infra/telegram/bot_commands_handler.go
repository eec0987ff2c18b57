// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"

	"join_request_bot/internal/app"
	"join_request_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterMemberHandlers binds the membership commands: /register,
// /broadcast, /stats and /help.
func RegisterMemberHandlers(
	ctx context.Context,
	b *telebot.Bot,
	members *app.MemberService,
	admin *app.AdminService,
	baseLogger *logrus.Entry,
) {
	memberLogger := baseLogger.WithField("handler_group", "members")

	b.Handle("/register", func(c telebot.Context) error {
		logCtx := memberLogger.WithFields(logrus.Fields{"command": "/register", "sender_id": c.Sender().ID})
		logCtx.Info("Processing /register command")

		created, err := members.Register(ctx, applicantFrom(c))
		if err != nil {
			logCtx.WithError(err).Error("Failed to register member")
			return c.Send(messages.TryAgainLater)
		}
		if created {
			return c.Send(messages.RegisterWelcome)
		}
		return c.Send(messages.RegisterAlready)
	})

	b.Handle("/broadcast", func(c telebot.Context) error {
		logCtx := memberLogger.WithFields(logrus.Fields{"command": "/broadcast", "sender_id": c.Sender().ID})
		logCtx.Info("Processing /broadcast command")

		report, err := members.Broadcast(ctx, c.Sender().ID, c.Message().Payload)
		if err != nil {
			switch err {
			case app.ErrNotAuthorized:
				logCtx.Warn("Unauthorized broadcast attempt")
				return c.Send(messages.NotAuthorized)
			case app.ErrEmptyBroadcast:
				return c.Send(messages.BroadcastUsage)
			default:
				logCtx.WithError(err).Error("Broadcast failed")
				return c.Send(messages.TryAgainLater)
			}
		}
		return c.Send(messages.BroadcastSummary(report.Sent, report.Failed, report.Total))
	})

	b.Handle("/stats", func(c telebot.Context) error {
		logCtx := memberLogger.WithFields(logrus.Fields{"command": "/stats", "sender_id": c.Sender().ID})
		logCtx.Info("Processing /stats command")

		stats, err := members.Stats(ctx, c.Sender().ID)
		if err != nil {
			if err == app.ErrNotAuthorized {
				logCtx.Warn("Unauthorized stats attempt")
				return c.Send(messages.NotAuthorized)
			}
			logCtx.WithError(err).Error("Stats failed")
			return c.Send(messages.TryAgainLater)
		}
		report := messages.StatsReport(stats.Total, stats.WithHandle, stats.Contacted, stats.RecentlyApproved, members.RecentDays())
		return c.Send(report, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := memberLogger.WithFields(logrus.Fields{"command": "/help", "sender_id": c.Sender().ID})
		logCtx.Info("Processing /help command")

		if admin.IsModerator(c.Sender().ID) {
			return c.Send(messages.AdminHelp, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}
		return c.Send(messages.UserHelp, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
