package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// CountEvents returns how many journal entries source has stored.
func (r *Repository) CountEvents(ctx context.Context, source string) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("count_events", source, err, start)
	}()

	const query = `
SELECT count() AS events
FROM settlement_events
WHERE source = ?`

	rows, err := r.conn.Query(ctx, query, source)
	if err != nil {
		return 0, fmt.Errorf("query event count: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var count uint64
	if !rows.Next() {
		return 0, fmt.Errorf("event count not found")
	}
	if err = rows.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan event count: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate event count: %w", err)
	}

	return count, nil
}
