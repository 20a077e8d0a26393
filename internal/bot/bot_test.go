package bot_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/edgard/abatotals/internal/bot"
	"github.com/edgard/abatotals/internal/bot/tasks"
	"github.com/edgard/abatotals/internal/config"
	"github.com/edgard/abatotals/internal/events"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingListener struct{}

func (blockingListener) Start(ctx context.Context) { <-ctx.Done() }

type returningListener struct{}

func (returningListener) Start(context.Context) {}

type closeRecorder struct {
	events.NopPublisher
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func newScheduler(t *testing.T, cfg *config.SchedulerConfig) *bot.Scheduler {
	t.Helper()
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"sql_maintenance": func(context.Context) error { return nil },
	}
	s, err := bot.NewScheduler(discard(), cfg, time.UTC, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	pub := &closeRecorder{}
	b := bot.NewBot(discard(), blockingListener{}, newScheduler(t, nil), pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if !pub.closed {
		t.Error("publisher was not closed")
	}
}

func TestRunFailsWhenListenerStops(t *testing.T) {
	t.Parallel()

	b := bot.NewBot(discard(), returningListener{}, newScheduler(t, nil), nil)
	if err := b.Run(context.Background()); err == nil {
		t.Fatal("Run returned nil for a listener that stopped on its own")
	}
}

func TestSchedulerSchedulesEnabledTasks(t *testing.T) {
	t.Parallel()

	s := newScheduler(t, &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 30 4 * * *"},
		"unknown":         {Enabled: true, Schedule: "0 0 * * * *"},
		"disabled":        {Enabled: false},
	}})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	if err := s.Start(); err == nil {
		t.Error("second Start succeeded")
	}

	jobs := s.Jobs()
	if !slices.Equal(jobs, []string{"sql_maintenance"}) {
		t.Errorf("jobs = %v, want [sql_maintenance]", jobs)
	}
}
