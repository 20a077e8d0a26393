package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/abatotals/internal/config"
	"github.com/edgard/abatotals/internal/ledger"
)

// AdminCheckFunc reports whether userID may run admin commands in chat.
type AdminCheckFunc func(ctx context.Context, b *bot.Bot, chat models.Chat, userID int64) (bool, error)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Ledger  *ledger.Service
	IsAdmin AdminCheckFunc
}
