package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/edgard/abatotals/internal/events"
)

func TestTransactionRecordedWireFields(t *testing.T) {
	t.Parallel()

	ev := events.TransactionRecorded{
		ID:        4,
		ChatID:    -1001,
		MessageID: 77,
		Timestamp: "2025-03-10T02:30:00.000000+00:00",
		Currency:  "USD",
		Amount:    "12.5",
		SentAt:    time.Date(2025, time.March, 10, 2, 30, 1, 0, time.UTC),
	}
	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "chat_id", "msg_id", "ts", "currency", "amount", "sent_at"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("field %q missing from %s", key, data)
		}
	}
	if fields["amount"] != "12.5" {
		t.Errorf("amount = %v, want the exact decimal string", fields["amount"])
	}
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	var p events.Publisher = events.NopPublisher{}
	if err := p.PublishTransaction(context.Background(), events.TransactionRecorded{}); err != nil {
		t.Errorf("PublishTransaction: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
