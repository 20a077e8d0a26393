package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewExportHandler returns a handler for the /exportcsv command, which sends
// this month's transactions as a CSV document.
func NewExportHandler(deps HandlerDeps) bot.HandlerFunc {
	return exportHandler{deps}.Handle
}

type exportHandler struct {
	deps HandlerDeps
}

func (h exportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "exportcsv")

	if update.Message == nil {
		log.WarnContext(ctx, "Export handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	filename, data, err := h.deps.Ledger.MonthExport(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to export transactions", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  fmt.Sprintf(h.deps.Config.Messages.ExportCaption, h.deps.Ledger.Now().Format("January 2006")),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send export document", "error", err, "chat_id", chatID, "filename", filename)
		return
	}

	log.InfoContext(ctx, "Sent transaction export", "chat_id", chatID, "filename", filename, "bytes", len(data))
}
