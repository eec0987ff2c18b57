package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"join_request_bot/internal/app"
	"join_request_bot/internal/domain/category"
	"join_request_bot/internal/infra/config"
	idb "join_request_bot/internal/infra/database"
	"join_request_bot/internal/infra/logger"
	"join_request_bot/internal/infra/scheduler"
	"join_request_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")
	log.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"log_level":       cfg.LogLevel,
		"admin_chat_id":   cfg.AdminChatID,
		"target_group_id": cfg.TargetGroupID,
	}).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	if err := idb.EnsureSchema(db); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}
	log.Info("Database connection established")

	requestRepo := idb.NewPostgresRequestRepository(db)
	memberRepo := idb.NewPostgresMemberRepository(db)

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: cfg.LongPollTimeout},
		Client: &http.Client{Timeout: cfg.HTTPClientTimeout},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Unhandled bot error")
		},
	})
	if err != nil {
		log.Fatalf("Could not create Telegram bot: %v", err)
	}

	client := telegram.NewTelebotAdapter(bot)
	catalog := category.Default()

	appLog := logger.Get().WithField("component", "app")
	applicationService := app.NewApplicationService(requestRepo, catalog, client, appLog, cfg.AdminChatID, cfg.Location)
	adminService := app.NewAdminService(requestRepo, memberRepo, client, appLog, cfg.AdminChatID, cfg.TargetGroupID)
	memberService := app.NewMemberService(memberRepo, client, appLog, cfg.AdminChatID, cfg.StatsRecentDays)
	expiryService := app.NewExpiryService(requestRepo, client, appLog, cfg.AdminChatID, cfg.TargetGroupID, cfg.RequestExpiry)

	ctx := context.Background()
	handlerLog := logger.Get().WithField("component", "telegram")
	telegram.RegisterConversationHandlers(ctx, bot, applicationService, adminService, catalog, handlerLog)
	telegram.RegisterMemberHandlers(ctx, bot, memberService, adminService, handlerLog)
	telegram.SetBotCommands(bot, handlerLog)
	log.Info("Telegram handlers registered")

	sched := scheduler.NewExpiryScheduler(expiryService, logger.Get().WithField("component", "scheduler"), cfg.Location, cfg.ExpiryCronSpec)
	if err := sched.Start(); err != nil {
		log.Fatalf("Could not start expiry scheduler: %v", err)
	}

	go bot.Start()
	log.Info("Bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sched.Stop()
	bot.Stop()
	log.Info("Shutdown complete")
}
