package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
)

// reply sends a plain-text message to chatID, logging delivery failures.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// commandArgs returns the whitespace-separated arguments following the
// command word in text ("/shift@ababot 06:00 13:00" yields two).
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
