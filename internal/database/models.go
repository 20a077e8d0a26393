package database

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the fixed-width ISO-8601 layout of the ts column.
// Every stored value is UTC, so text order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// MaxRawLength is the number of characters of message text kept per transaction.
const MaxRawLength = 2000

// Transaction is one monetary mention detected in a chat message.
// Rows are immutable once written.
type Transaction struct {
	ID        int64           `db:"id"`
	ChatID    int64           `db:"chat_id"`
	MessageID int64           `db:"msg_id"`
	Timestamp string          `db:"ts"` // ISO-8601, UTC
	Currency  string          `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
	Raw       string          `db:"raw"`
}

// NewTransaction builds a Transaction observed at the local instant at.
// The instant is stored in UTC and raw is cut to MaxRawLength characters.
func NewTransaction(chatID, messageID int64, at time.Time, currency string, amount decimal.Decimal, raw string) *Transaction {
	return &Transaction{
		ChatID:    chatID,
		MessageID: messageID,
		Timestamp: FormatTimestamp(at),
		Currency:  currency,
		Amount:    amount,
		Raw:       TruncateRunes(raw, MaxRawLength),
	}
}

// ChatSettings holds per-chat configuration.
type ChatSettings struct {
	ChatID         int64   `db:"chat_id"`
	SourceUsername *string `db:"source_username"`
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// TruncateRunes returns at most n characters of s.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
