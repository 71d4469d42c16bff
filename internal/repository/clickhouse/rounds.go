package clickhouse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

// Rounds returns every stored round of oracle ordered by day.
func (r *Repository) Rounds(ctx context.Context, oracle string) ([]model.Round, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("rounds", oracle, err, start)
	}()

	const query = `
SELECT day, value, kind, pools, hashrate, recorded_at
FROM oracle_rounds FINAL
WHERE oracle = ?
ORDER BY day`

	rows, err := r.conn.Query(ctx, query, oracle)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var rounds []model.Round
	for rows.Next() {
		var (
			round model.Round
			value big.Int
			kind  string
		)
		if err = rows.Scan(&round.Day, &value, &kind, &round.Pools, &round.Hashrate, &round.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		v, overflow := uint256.FromBig(&value)
		if overflow {
			err = fmt.Errorf("round %d value %s: %w", round.Day, value.String(), model.ErrInvalidInput)
			return nil, err
		}
		round.Oracle = oracle
		round.Value = v
		round.Kind = model.RoundKind(kind)
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}

	return rounds, nil
}
