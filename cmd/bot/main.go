// Package main contains the entrypoint for the ABA totals Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/abatotals/internal/bot"
	"github.com/edgard/abatotals/internal/bot/handlers"
	"github.com/edgard/abatotals/internal/bot/tasks"
	"github.com/edgard/abatotals/internal/config"
	"github.com/edgard/abatotals/internal/database"
	"github.com/edgard/abatotals/internal/events"
	"github.com/edgard/abatotals/internal/ledger"
	"github.com/edgard/abatotals/internal/logger"
	"github.com/edgard/abatotals/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, db, publisher, ledger, bot,
// scheduler), blocks until shutdown and returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON, "timezone", cfg.Timezone)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, log)
		if err != nil {
			log.Error("Failed to connect to AMQP broker", "exchange", cfg.AMQP.Exchange, "error", err)
			return 1
		}
	}

	ledgerSvc := ledger.NewService(store, cfg.Location(), log, ledger.WithPublisher(publisher))

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Ledger:  ledgerSvc,
		IsAdmin: telegram.NewAdminChecker(cfg.Telegram.OwnerUserID, nil),
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}

	botOpts := []tgbot.Option{
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, cfg.Location(), tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, tg, sched, publisher)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
