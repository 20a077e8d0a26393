// Package events publishes ledger events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// TransactionRecorded announces one stored transaction.
type TransactionRecorded struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int64     `json:"msg_id"`
	Timestamp string    `json:"ts"`
	Currency  string    `json:"currency"`
	Amount    string    `json:"amount"`
	SentAt    time.Time `json:"sent_at"`
}

// ToJSON converts the event to JSON bytes.
func (e TransactionRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers ledger events.
type Publisher interface {
	PublishTransaction(ctx context.Context, ev TransactionRecorded) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransaction(context.Context, TransactionRecorded) error { return nil }

func (NopPublisher) Close() error { return nil }
