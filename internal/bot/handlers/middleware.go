// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that lets the update through only when the
// sender is an admin of the chat, as decided by deps.IsAdmin. Everyone else
// gets the "not authorized" reply. A failed check counts as a refusal.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			chat := update.Message.Chat
			userID := update.Message.From.ID
			log := deps.Logger.With("middleware", "AdminOnly")

			allowed := false
			if deps.IsAdmin != nil {
				ok, err := deps.IsAdmin(ctx, bot, chat, userID)
				if err != nil {
					log.ErrorContext(ctx, "Failed to check admin status", "error", err, "user_id", userID, "chat_id", chat.ID)
				}
				allowed = ok && err == nil
			}

			if !allowed {
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chat.ID)
				reply(ctx, bot, log, chat.ID, deps.Config.Messages.NotAuthorized)
				return
			}

			next(ctx, bot, update)
		}
	}
}
