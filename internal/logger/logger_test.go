package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/abatotals/internal/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		if got := logger.ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, "warn", true)
	log.Info("hidden")
	log.Warn("shown", "chat_id", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"chat_id":42`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, "info", false)

	called := false
	next := func(context.Context, *bot.Bot, *models.Update) { called = true }

	update := &models.Update{
		ID: 11,
		Message: &models.Message{
			ID:   3,
			Chat: models.Chat{ID: -100, Type: models.ChatTypeSupergroup},
			From: &models.User{ID: 8},
			Text: strings.Repeat("៛", 80),
		},
	}
	logger.Middleware(log)(next)(context.Background(), nil, update)

	if !called {
		t.Fatal("middleware did not call next handler")
	}
	out := buf.String()
	for _, want := range []string{"update_id=11", "chat_id=-100", "user_id=8", "update_type=message", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("៛", 51)) {
		t.Errorf("text preview not truncated: %s", out)
	}
}
