package tracker

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/workerpool"
)

// fetchReports asks every pool for its report of day concurrently and
// returns the earnings and hashrate columns in pool order.
func fetchReports(ctx context.Context, pools []PoolSource, workerCount int, day uint64) ([]uint64, []uint64, error) {
	if workerCount > len(pools) {
		workerCount = len(pools)
	}

	reports, err := workerpool.Collect(ctx, workerCount, pools, func(ctx context.Context, p PoolSource) (model.PoolReport, error) {
		r, err := p.DailyReport(ctx, day)
		if err != nil {
			return model.PoolReport{}, fmt.Errorf("pool %s report for day %d: %w", p.Name(), day, err)
		}
		if r.Day != day {
			return model.PoolReport{}, fmt.Errorf("pool %s answered day %d for day %d: %w", p.Name(), r.Day, day, model.ErrInvalidInput)
		}
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}

	earnings := make([]uint64, 0, len(reports))
	hashrates := make([]uint64, 0, len(reports))
	for _, r := range reports {
		earnings = append(earnings, r.Earnings)
		hashrates = append(hashrates, r.Hashrate)
	}
	return earnings, hashrates, nil
}
