package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/edgard/abatotals/internal/window"
)

// Store defines the ledger's persistence operations. Every method runs a
// single statement; nothing spans several statements or holds a connection
// between calls.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveTransaction appends one transaction row and sets its ID.
	SaveTransaction(ctx context.Context, tx *Transaction) error

	// SumByCurrency totals the chat's amounts per currency over [start, end).
	// Currencies without rows are absent from the result.
	SumByCurrency(ctx context.Context, chatID int64, start, end time.Time) (map[string]decimal.Decimal, error)

	// RangeOrdered returns the chat's transactions in [start, end), oldest first.
	RangeOrdered(ctx context.Context, chatID int64, start, end time.Time) ([]Transaction, error)

	// ResetDay deletes the chat's transactions for the local day containing day
	// and returns the number of rows removed. Callers must be authorized.
	ResetDay(ctx context.Context, chatID int64, day time.Time) (int64, error)

	// SetSource stores the sender identifier that restricts counting in a chat.
	SetSource(ctx context.Context, chatID int64, source string) error

	// GetSource returns the configured sender identifier, if any.
	GetSource(ctx context.Context, chatID int64) (string, bool, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveTransaction(ctx context.Context, tx *Transaction) error {
	if tx == nil {
		return fmt.Errorf("cannot save nil transaction")
	}
	if tx.Timestamp == "" {
		return fmt.Errorf("transaction must have a timestamp")
	}
	if tx.Currency == "" {
		return fmt.Errorf("transaction must have a currency")
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (chat_id, msg_id, ts, currency, amount, raw) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ChatID, tx.MessageID, tx.Timestamp, tx.Currency, tx.Amount.InexactFloat64(), TruncateRunes(tx.Raw, MaxRawLength),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving transaction", "chat_id", tx.ChatID, "msg_id", tx.MessageID, "error", err)
		return fmt.Errorf("failed to save transaction (chat %d, message %d): %w", tx.ChatID, tx.MessageID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		tx.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving transaction",
			"chat_id", tx.ChatID, "msg_id", tx.MessageID, "error", err)
	}

	s.logger.DebugContext(ctx, "Transaction saved",
		"id", tx.ID, "chat_id", tx.ChatID, "currency", tx.Currency, "amount", tx.Amount.String())
	return nil
}

type currencyTotal struct {
	Currency string          `db:"currency"`
	Total    decimal.Decimal `db:"total"`
}

func (s *sqlxStore) SumByCurrency(ctx context.Context, chatID int64, start, end time.Time) (map[string]decimal.Decimal, error) {
	var rows []currencyTotal
	query := `
        SELECT currency, SUM(amount) AS total
        FROM transactions
        WHERE chat_id = ? AND ts >= ? AND ts < ?
        GROUP BY currency
        ORDER BY currency;
    `
	if err := s.db.SelectContext(ctx, &rows, query, chatID, FormatTimestamp(start), FormatTimestamp(end)); err != nil {
		s.logger.ErrorContext(ctx, "Error summing transactions", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to sum transactions for chat %d: %w", chatID, err)
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.Currency] = r.Total
	}
	return totals, nil
}

func (s *sqlxStore) RangeOrdered(ctx context.Context, chatID int64, start, end time.Time) ([]Transaction, error) {
	var txs []Transaction
	query := `
        SELECT id, chat_id, msg_id, ts, currency, amount, raw
        FROM transactions
        WHERE chat_id = ? AND ts >= ? AND ts < ?
        ORDER BY ts ASC, id ASC;
    `
	if err := s.db.SelectContext(ctx, &txs, query, chatID, FormatTimestamp(start), FormatTimestamp(end)); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching transaction range", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to fetch transactions for chat %d: %w", chatID, err)
	}
	return txs, nil
}

func (s *sqlxStore) ResetDay(ctx context.Context, chatID int64, day time.Time) (int64, error) {
	w := window.Day(day)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE chat_id = ? AND ts >= ? AND ts < ?`,
		chatID, FormatTimestamp(w.Start), FormatTimestamp(w.End),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error resetting day", "chat_id", chatID, "day", w.Label, "error", err)
		return 0, fmt.Errorf("failed to reset transactions for chat %d on %s: %w", chatID, w.Label, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve affected rows after reset", "chat_id", chatID, "error", err)
		return 0, nil
	}

	s.logger.InfoContext(ctx, "Day reset", "chat_id", chatID, "day", w.Label, "deleted", affected)
	return affected, nil
}

func (s *sqlxStore) SetSource(ctx context.Context, chatID int64, source string) error {
	settings := ChatSettings{ChatID: chatID, SourceUsername: &source}
	query := `
        INSERT INTO settings (chat_id, source_username)
        VALUES (:chat_id, :source_username)
        ON CONFLICT(chat_id) DO UPDATE SET source_username = excluded.source_username;
    `
	if _, err := s.db.NamedExecContext(ctx, query, &settings); err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat source", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to set source for chat %d: %w", chatID, err)
	}
	return nil
}

func (s *sqlxStore) GetSource(ctx context.Context, chatID int64) (string, bool, error) {
	var settings ChatSettings
	err := s.db.GetContext(ctx, &settings, `SELECT chat_id, source_username FROM settings WHERE chat_id = ?`, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		s.logger.ErrorContext(ctx, "Error loading chat source", "chat_id", chatID, "error", err)
		return "", false, fmt.Errorf("failed to get source for chat %d: %w", chatID, err)
	}

	if settings.SourceUsername == nil || *settings.SourceUsername == "" {
		return "", false, nil
	}
	return *settings.SourceUsername, true, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
