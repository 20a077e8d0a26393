package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/abatotals/internal/bot/handlers"
)

// MemberStatusFunc looks up the membership status of userID in chatID.
type MemberStatusFunc func(ctx context.Context, b *bot.Bot, chatID, userID int64) (models.ChatMemberType, error)

// GetChatMemberStatus asks Telegram for the member's status.
func GetChatMemberStatus(ctx context.Context, b *bot.Bot, chatID, userID int64) (models.ChatMemberType, error) {
	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}
	return member.Type, nil
}

// NewAdminChecker returns the admin check used by the AdminOnly middleware.
// Private chats are always administered by their only user; ownerID, when
// non-zero, is an admin everywhere. Otherwise the user must be the chat's
// creator or an administrator according to status.
func NewAdminChecker(ownerID int64, status MemberStatusFunc) handlers.AdminCheckFunc {
	if status == nil {
		status = GetChatMemberStatus
	}
	return func(ctx context.Context, b *bot.Bot, chat models.Chat, userID int64) (bool, error) {
		if chat.Type == models.ChatTypePrivate {
			return true, nil
		}
		if ownerID != 0 && userID == ownerID {
			return true, nil
		}

		memberType, err := status(ctx, b, chat.ID, userID)
		if err != nil {
			return false, err
		}
		return memberType == models.ChatMemberTypeOwner || memberType == models.ChatMemberTypeAdministrator, nil
	}
}
