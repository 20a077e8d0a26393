package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its middleware.
// It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     handler,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  mw,
	}
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// Plain text messages are not registered here; they reach NewMessageHandler
// through the bot's default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/today"] = command("today", NewTodayHandler(deps))
	handlers["/month"] = command("month", NewMonthHandler(deps))
	handlers["/shift"] = command("shift", NewShiftHandler(deps))
	handlers["/exportcsv"] = command("exportcsv", NewExportHandler(deps))
	handlers["/setsource"] = command("setsource", NewSetSourceHandler(deps))

	handlers["/reset_today"] = command("reset_today", NewResetHandler(deps), AdminOnly(deps))

	return handlers
}
