package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/abatotals/internal/amount"
	"github.com/edgard/abatotals/internal/bot/handlers"
	"github.com/edgard/abatotals/internal/config"
	"github.com/edgard/abatotals/internal/database"
	"github.com/edgard/abatotals/internal/ledger"
	"github.com/edgard/abatotals/internal/window"
)

var phnomPenh = time.FixedZone("ICT", 7*60*60)

func newDeps(t *testing.T) handlers.HandlerDeps {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.sqlite"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, phnomPenh)
	svc := ledger.NewService(database.NewStore(db, logger), phnomPenh, logger,
		ledger.WithClock(func() time.Time { return now }))

	return handlers.HandlerDeps{
		Logger: logger,
		Config: &config.Config{},
		Ledger: svc,
	}
}

func textUpdate(chatID int64, username, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   7,
			Chat: models.Chat{ID: chatID, Type: models.ChatTypeGroup},
			From: &models.User{ID: 99, Username: username},
			Text: text,
		},
	}
}

func todayTotals(t *testing.T, deps handlers.HandlerDeps, chatID int64) string {
	t.Helper()
	totals, err := deps.Ledger.Totals(context.Background(), chatID, window.Today(deps.Ledger.Now()))
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	return ledger.FormatTotals(totals)
}

func TestMessageHandlerRecordsAmounts(t *testing.T) {
	deps := newDeps(t)
	handle := handlers.NewMessageHandler(deps)

	handle(context.Background(), nil, textUpdate(1, "cashier", "Received $12.50 from customer"))
	handle(context.Background(), nil, textUpdate(1, "cashier", "៛4,000 paid"))

	if got, want := todayTotals(t, deps, 1), "KHR: 4,000 | USD: 12.50"; got != want {
		t.Errorf("totals = %q, want %q", got, want)
	}
}

func TestMessageHandlerRecordsChannelPosts(t *testing.T) {
	deps := newDeps(t)
	handle := handlers.NewMessageHandler(deps)

	handle(context.Background(), nil, &models.Update{
		ID: 4,
		ChannelPost: &models.Message{
			ID:   12,
			Chat: models.Chat{ID: -100, Type: models.ChatTypeChannel},
			Text: "Received $25.00",
		},
	})

	if got, want := todayTotals(t, deps, -100), "USD: 25.00"; got != want {
		t.Errorf("totals = %q, want %q", got, want)
	}
}

func TestMessageHandlerChannelPostWithSourceSet(t *testing.T) {
	deps := newDeps(t)
	if err := deps.Ledger.SetSource(context.Background(), -100, "@payway"); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	handle := handlers.NewMessageHandler(deps)

	handle(context.Background(), nil, &models.Update{
		ID:          5,
		ChannelPost: &models.Message{ID: 13, Chat: models.Chat{ID: -100, Type: models.ChatTypeChannel}, Text: "$9"},
	})

	if got := todayTotals(t, deps, -100); got != "" {
		t.Errorf("totals = %q, want none for a post without a sender", got)
	}
}

func TestMessageHandlerIgnoresCommandsAndEmptyUpdates(t *testing.T) {
	deps := newDeps(t)
	handle := handlers.NewMessageHandler(deps)

	handle(context.Background(), nil, textUpdate(1, "cashier", "/shift $5"))
	handle(context.Background(), nil, &models.Update{ID: 2})
	handle(context.Background(), nil, textUpdate(1, "cashier", ""))

	if got := todayTotals(t, deps, 1); got != "" {
		t.Errorf("totals = %q, want none", got)
	}
}

func TestMessageHandlerHonoursSource(t *testing.T) {
	deps := newDeps(t)
	if err := deps.Ledger.SetSource(context.Background(), 1, "@PayWay"); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	handle := handlers.NewMessageHandler(deps)

	handle(context.Background(), nil, textUpdate(1, "someone", "$10"))
	handle(context.Background(), nil, textUpdate(1, "payway", "$3"))

	totals, err := deps.Ledger.Totals(context.Background(), 1, window.Today(deps.Ledger.Now()))
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if got := totals[amount.USD].StringFixed(2); got != "3.00" {
		t.Errorf("USD total = %s, want 3.00", got)
	}
}

func TestAdminOnlyPassesAdmins(t *testing.T) {
	deps := newDeps(t)

	var checkedChat, checkedUser int64
	deps.IsAdmin = func(_ context.Context, _ *bot.Bot, chat models.Chat, userID int64) (bool, error) {
		checkedChat, checkedUser = chat.ID, userID
		return true, nil
	}

	called := false
	next := func(context.Context, *bot.Bot, *models.Update) { called = true }
	handlers.AdminOnly(deps)(next)(context.Background(), nil, textUpdate(5, "boss", "/reset_today"))

	if !called {
		t.Fatal("next handler was not called for an admin")
	}
	if checkedChat != 5 || checkedUser != 99 {
		t.Errorf("IsAdmin called with chat %d user %d, want 5 and 99", checkedChat, checkedUser)
	}
}

func TestAdminOnlyIgnoresUpdatesWithoutSender(t *testing.T) {
	deps := newDeps(t)
	deps.IsAdmin = func(context.Context, *bot.Bot, models.Chat, int64) (bool, error) {
		return false, errors.New("must not be called")
	}

	called := false
	next := func(context.Context, *bot.Bot, *models.Update) { called = true }
	handlers.AdminOnly(deps)(next)(context.Background(), nil, &models.Update{ID: 3})

	if called {
		t.Error("next handler called for an update without a message")
	}
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()

	registered := handlers.RegisterAllCommands(handlers.HandlerDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{},
	})

	want := map[string]int{
		"/start":       0,
		"/help":        0,
		"/today":       0,
		"/month":       0,
		"/shift":       0,
		"/exportcsv":   0,
		"/setsource":   0,
		"/reset_today": 1,
	}
	if len(registered) != len(want) {
		t.Errorf("registered %d commands, want %d", len(registered), len(want))
	}
	for name, middleware := range want {
		h, ok := registered[name]
		if !ok {
			t.Errorf("command %s not registered", name)
			continue
		}
		if h.Pattern != name[1:] {
			t.Errorf("%s pattern = %q", name, h.Pattern)
		}
		if h.MatchType != bot.MatchTypeCommandStartOnly {
			t.Errorf("%s match type = %v", name, h.MatchType)
		}
		if h.Handler == nil {
			t.Errorf("%s has nil handler", name)
		}
		if len(h.Middleware) != middleware {
			t.Errorf("%s has %d middleware, want %d", name, len(h.Middleware), middleware)
		}
	}
}

func TestMessageHandlerLogsRecordingOnce(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.sqlite"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := ledger.NewService(database.NewStore(db, nil), phnomPenh, logger)
	deps := handlers.HandlerDeps{Logger: logger, Config: &config.Config{}, Ledger: svc}

	handlers.NewMessageHandler(deps)(context.Background(), nil, textUpdate(1, "cashier", "$5"))

	if n := strings.Count(buf.String(), "Recorded transactions"); n != 1 {
		t.Errorf("recording logged %d times, want once:\n%s", n, buf.String())
	}
}
