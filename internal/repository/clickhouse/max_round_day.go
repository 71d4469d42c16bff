package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// MaxRoundDay returns the highest stored day of oracle, zero when none.
func (r *Repository) MaxRoundDay(ctx context.Context, oracle string) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_round_day", oracle, err, start)
	}()

	const query = `
SELECT coalesce(max(day), toUInt64(0)) AS max_day
FROM oracle_rounds
WHERE oracle = ?`

	rows, err := r.conn.Query(ctx, query, oracle)
	if err != nil {
		return 0, fmt.Errorf("query max round day: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var day uint64
	if !rows.Next() {
		return 0, fmt.Errorf("max round day not found")
	}

	if err = rows.Scan(&day); err != nil {
		return 0, fmt.Errorf("scan max round day: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max round day: %w", err)
	}

	return day, nil
}
