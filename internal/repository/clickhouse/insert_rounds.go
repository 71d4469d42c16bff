package clickhouse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

// InsertRounds stores oracle rounds. Rows with the same oracle and day are
// collapsed to the latest recorded one.
func (r *Repository) InsertRounds(ctx context.Context, rounds []model.Round) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_rounds", firstSource(rounds), err, start)
	}()

	if len(rounds) == 0 {
		return nil
	}

	const query = `
INSERT INTO oracle_rounds (
	oracle,
	day,
	value,
	kind,
	pools,
	hashrate,
	recorded_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare rounds batch: %w", err)
	}

	for _, round := range rounds {
		if err = batch.Append(
			round.Oracle,
			round.Day,
			bigOrZero(round.Value),
			string(round.Kind),
			round.Pools,
			round.Hashrate,
			round.RecordedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append round %d: %w", round.Day, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert rounds: %w", err)
	}
	return nil
}

func bigOrZero(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
