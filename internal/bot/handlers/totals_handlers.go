package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTodayHandler returns a handler for the /today command.
func NewTodayHandler(deps HandlerDeps) bot.HandlerFunc {
	return reportHandler{deps: deps, name: "today", report: func(ctx context.Context, chatID int64, _ []string) (string, error) {
		return deps.Ledger.TodayReport(ctx, chatID)
	}}.Handle
}

// NewMonthHandler returns a handler for the /month command.
func NewMonthHandler(deps HandlerDeps) bot.HandlerFunc {
	return reportHandler{deps: deps, name: "month", report: func(ctx context.Context, chatID int64, _ []string) (string, error) {
		return deps.Ledger.MonthReport(ctx, chatID)
	}}.Handle
}

// NewShiftHandler returns a handler for the /shift command. Malformed
// arguments are answered with the usage text by the ledger.
func NewShiftHandler(deps HandlerDeps) bot.HandlerFunc {
	return reportHandler{deps: deps, name: "shift", report: deps.Ledger.ShiftReport}.Handle
}

// reportHandler answers a totals command with the text produced by report.
type reportHandler struct {
	deps   HandlerDeps
	name   string
	report func(ctx context.Context, chatID int64, args []string) (string, error)
}

func (h reportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", h.name)

	if update.Message == nil {
		log.WarnContext(ctx, "Report handler received update with nil message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	text, err := h.report(ctx, chatID, commandArgs(update.Message.Text))
	if err != nil {
		log.ErrorContext(ctx, "Failed to build report", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	reply(ctx, b, log, chatID, text)
}
