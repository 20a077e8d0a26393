package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/abatotals/internal/ledger"
)

// NewMessageHandler returns the default handler: every non-command text
// message or channel post is handed to the ledger, which records any amounts
// it carries. Nothing is sent back to the chat, even when storage fails.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil || msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	in := ledger.Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: int64(msg.ID),
		Text:      msg.Text,
	}
	if msg.From != nil {
		in.Sender = msg.From.Username
	}

	if saved, err := h.deps.Ledger.Record(ctx, in); err != nil {
		log.ErrorContext(ctx, "Failed to record transactions", "error", err, "chat_id", in.ChatID, "message_id", in.MessageID, "saved", saved)
	}
}
