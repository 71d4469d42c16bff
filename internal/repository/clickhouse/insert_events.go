package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
)

// InsertEvents stores journal entries in ClickHouse.
func (r *Repository) InsertEvents(ctx context.Context, entries []model.JournalEntry) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_events", firstSource(entries), err, start)
	}()

	if len(entries) == 0 {
		return nil
	}

	const query = `
INSERT INTO settlement_events (
	id,
	source,
	type,
	seq,
	time,
	day,
	instrument,
	account,
	counterparty,
	amount,
	ratio,
	clamped,
	reference
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare events batch: %w", err)
	}

	for _, e := range entries {
		if err = batch.Append(
			e.ID,
			e.Source,
			string(e.Type),
			e.Seq,
			e.Time,
			e.Day,
			uint64(e.Instrument),
			e.Account.Hex(),
			e.Counterparty.Hex(),
			bigOrZero(e.Amount),
			e.Ratio,
			e.Clamped,
			e.Reference,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append event %s: %w", e.ID, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}

func firstSource[T any](items []T) string {
	if len(items) == 0 {
		return ""
	}

	switch v := any(items[0]).(type) {
	case model.JournalEntry:
		return v.Source
	case model.Round:
		return v.Oracle
	default:
		return ""
	}
}
