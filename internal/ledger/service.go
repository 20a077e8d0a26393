// Package ledger ties amount extraction, the transaction store and reporting
// windows together: it records amounts from accepted chat messages and answers
// totals and export queries.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgard/abatotals/internal/amount"
	"github.com/edgard/abatotals/internal/database"
	"github.com/edgard/abatotals/internal/events"
	"github.com/edgard/abatotals/internal/window"
)

// Store is the persistence the ledger needs. database.Store satisfies it.
type Store interface {
	SaveTransaction(ctx context.Context, tx *database.Transaction) error
	SumByCurrency(ctx context.Context, chatID int64, start, end time.Time) (map[string]decimal.Decimal, error)
	RangeOrdered(ctx context.Context, chatID int64, start, end time.Time) ([]database.Transaction, error)
	ResetDay(ctx context.Context, chatID int64, day time.Time) (int64, error)
	SetSource(ctx context.Context, chatID int64, source string) error
	GetSource(ctx context.Context, chatID int64) (string, bool, error)
}

// Inbound is a text message delivered by the chat transport.
type Inbound struct {
	ChatID    int64
	MessageID int64
	Sender    string // sender's username, empty when the sender has none
	Text      string
}

// Service records and reports chat transactions in a fixed local timezone.
type Service struct {
	store     Store
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for ingestion stamps and report windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher sets the publisher notified of every stored transaction.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a Service reporting in loc.
func NewService(store Store, loc *time.Location, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Service{
		store:     store,
		publisher: events.NopPublisher{},
		loc:       loc,
		now:       time.Now,
		logger:    logger.With("component", "ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current local time.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Record stores one transaction per amount found in an accepted message and
// returns how many were stored. Writes are independent: when one fails the
// earlier ones stay committed and the error is returned.
func (s *Service) Record(ctx context.Context, in Inbound) (int, error) {
	if in.Text == "" {
		return 0, nil
	}

	source, _, err := s.store.GetSource(ctx, in.ChatID)
	if err != nil {
		return 0, fmt.Errorf("failed to load chat source: %w", err)
	}
	if !Accept(source, in.Sender) {
		s.logger.DebugContext(ctx, "Message rejected by source filter", "chat_id", in.ChatID, "msg_id", in.MessageID)
		return 0, nil
	}

	amounts := amount.Extract(in.Text)
	if len(amounts) == 0 {
		return 0, nil
	}

	now := s.Now()
	for i, a := range amounts {
		tx := database.NewTransaction(in.ChatID, in.MessageID, now, string(a.Currency), a.Value, in.Text)
		if err := s.store.SaveTransaction(ctx, tx); err != nil {
			return i, fmt.Errorf("failed to record amount %d of %d: %w", i+1, len(amounts), err)
		}
		s.publish(ctx, tx)
	}

	s.logger.InfoContext(ctx, "Recorded transactions", "chat_id", in.ChatID, "msg_id", in.MessageID, "count", len(amounts))
	return len(amounts), nil
}

func (s *Service) publish(ctx context.Context, tx *database.Transaction) {
	ev := events.TransactionRecorded{
		ID:        tx.ID,
		ChatID:    tx.ChatID,
		MessageID: tx.MessageID,
		Timestamp: tx.Timestamp,
		Currency:  tx.Currency,
		Amount:    tx.Amount.String(),
		SentAt:    s.now().UTC(),
	}
	if err := s.publisher.PublishTransaction(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish transaction event", "id", tx.ID, "chat_id", tx.ChatID, "error", err)
	}
}

// Totals sums the chat's amounts per currency over w.
func (s *Service) Totals(ctx context.Context, chatID int64, w window.Window) (map[amount.Currency]decimal.Decimal, error) {
	raw, err := s.store.SumByCurrency(ctx, chatID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	totals := make(map[amount.Currency]decimal.Decimal, len(raw))
	for c, v := range raw {
		totals[amount.Currency(c)] = v
	}
	return totals, nil
}

// SetSource restricts counting in the chat to messages from identifier.
func (s *Service) SetSource(ctx context.Context, chatID int64, identifier string) error {
	return s.store.SetSource(ctx, chatID, identifier)
}

// ResetToday deletes today's transactions for the chat. Callers must have
// checked that the requester is a chat admin.
func (s *Service) ResetToday(ctx context.Context, chatID int64) (int64, error) {
	return s.store.ResetDay(ctx, chatID, s.Now())
}
