package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetSourceHandler returns a handler for the /setsource command.
func NewSetSourceHandler(deps HandlerDeps) bot.HandlerFunc {
	return setSourceHandler{deps}.Handle
}

type setSourceHandler struct {
	deps HandlerDeps
}

// Handle stores the first argument as the chat's source exactly as typed;
// the leading "@" and letter case are ignored later when messages are matched.
func (h setSourceHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "setsource")

	if update.Message == nil {
		log.WarnContext(ctx, "SetSource handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		reply(ctx, b, log, chatID, h.deps.Config.Messages.SetSourceUsage)
		return
	}

	if err := h.deps.Ledger.SetSource(ctx, chatID, args[0]); err != nil {
		log.ErrorContext(ctx, "Failed to set source", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Source updated", "chat_id", chatID, "source", args[0])
	reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.SetSourceConfirm, args[0]))
}
