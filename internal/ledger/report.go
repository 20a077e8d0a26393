package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edgard/abatotals/internal/amount"
	"github.com/edgard/abatotals/internal/database"
	"github.com/edgard/abatotals/internal/window"
)

// ShiftUsage is the reply to malformed shift arguments.
const ShiftUsage = "Usage: /shift 1 | /shift 2 | /shift HH:MM HH:MM"

// MaxSnippetLength is the number of characters of raw text exported per row.
const MaxSnippetLength = 250

var csvHeader = []string{"timestamp_utc", "currency", "amount", "snippet"}

// FormatTotals renders totals as "KHR: 5,000 | USD: 12.50", ordered by currency code.
func FormatTotals(totals map[amount.Currency]decimal.Decimal) string {
	currencies := make([]amount.Currency, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })

	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		parts = append(parts, fmt.Sprintf("%s: %s", c, amount.Format(c, totals[c])))
	}
	return strings.Join(parts, " | ")
}

// TodayReport answers the today command.
func (s *Service) TodayReport(ctx context.Context, chatID int64) (string, error) {
	totals, err := s.Totals(ctx, chatID, window.Today(s.Now()))
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "Today: no totals yet.", nil
	}
	return "Today ➜ " + FormatTotals(totals), nil
}

// MonthReport answers the month command.
func (s *Service) MonthReport(ctx context.Context, chatID int64) (string, error) {
	totals, err := s.Totals(ctx, chatID, window.ThisMonth(s.Now()))
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "This month: no totals yet.", nil
	}
	return "This month ➜ " + FormatTotals(totals), nil
}

// ShiftReport answers the shift command. Malformed arguments produce the
// usage text rather than an error.
func (s *Service) ShiftReport(ctx context.Context, chatID int64, args []string) (string, error) {
	w, err := window.Shift(args, window.Midnight(s.Now()))
	if errors.Is(err, window.ErrUsage) {
		return ShiftUsage, nil
	}
	if err != nil {
		return "", err
	}

	totals, err := s.Totals(ctx, chatID, w)
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return fmt.Sprintf("No transactions found for %s.", w.Label), nil
	}
	return w.Label + " ➜ " + FormatTotals(totals), nil
}

// MonthExport exports the current month and names the file after it.
func (s *Service) MonthExport(ctx context.Context, chatID int64) (string, []byte, error) {
	w := window.ThisMonth(s.Now())
	data, err := s.ExportCSV(ctx, chatID, w)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("transactions_%s.csv", w.Start.Format("2006-01")), data, nil
}

// ExportCSV serializes the chat's transactions in w, oldest first.
func (s *Service) ExportCSV(ctx context.Context, chatID int64, w window.Window) ([]byte, error) {
	txs, err := s.store.RangeOrdered(ctx, chatID, w.Start, w.End)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, tx := range txs {
		record := []string{tx.Timestamp, tx.Currency, tx.Amount.String(), Snippet(tx.Raw)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", tx.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Snippet flattens raw onto one line and cuts it to MaxSnippetLength characters.
func Snippet(raw string) string {
	return database.TruncateRunes(strings.ReplaceAll(raw, "\n", " "), MaxSnippetLength)
}
