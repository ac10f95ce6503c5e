package quote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/eventbus"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote/store"
)

// HistoryConsumerName identifies the history recorder for event dedupe.
const HistoryConsumerName = "quote-history"

// RecordHistory returns an event handler that flattens quote.compared
// events into history rows. Cached comparisons never publish, so each
// fingerprint is appended at most once per dedupe window.
func RecordHistory(hs store.HistoryStore, logger *slog.Logger) eventbus.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, evt eventbus.Envelope) error {
		var compared comparedEvent
		if err := evt.Decode(&compared); err != nil {
			return err
		}

		entries := make([]store.Entry, 0, len(compared.Quotes))
		for _, q := range compared.Quotes {
			entries = append(entries, store.Entry{
				Fingerprint: compared.Fingerprint,
				Customer:    compared.Customer,
				Carrier:     q.Carrier,
				Criteria:    string(compared.Criteria),
				Premium:     q.Premium,
				Score:       q.Score,
				TCO:         q.TCO,
				Partial:     compared.Partial,
				ComparedAt:  evt.OccurredAt,
			})
		}
		if len(entries) == 0 {
			return nil
		}
		if err := hs.Append(ctx, entries); err != nil {
			return fmt.Errorf("append quote history: %w", err)
		}
		logger.DebugContext(ctx, "recorded quote history",
			"customer", compared.Customer,
			"fingerprint", compared.Fingerprint,
			"rows", len(entries),
		)
		return nil
	}
}
