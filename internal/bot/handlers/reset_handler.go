package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset_today command. It must be
// registered behind AdminOnly.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset_today")
	if update.Message == nil || update.Message.From == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Admin requested reset of today's records", "chat_id", chatID, "user_id", update.Message.From.ID)

	deleted, err := h.deps.Ledger.ResetToday(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset today's records", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Deleted today's records", "chat_id", chatID, "count", deleted)
	reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.ResetConfirm, deleted))
}
