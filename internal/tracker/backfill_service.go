package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/clock"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"go.uber.org/zap"
)

// BackfillConfig configures the missed-day complement loop.
type BackfillConfig struct {
	// FirstDay is the earliest day that must have a round.
	FirstDay    uint64
	Limit       int
	Interval    time.Duration
	WorkerCount int
}

// BackfillService complements past days that never got a round, acting as
// the oracle admin.
type BackfillService struct {
	oracle                 Oracle
	pools                  []PoolSource
	admin                  common.Address
	metrics                Metrics
	logger                 *zap.Logger
	sleep                  func(context.Context, time.Duration) error
	idleSleepDuration      time.Duration
	postBatchSleepDuration time.Duration
	firstDay               uint64
	limit                  int
	workerCount            int
}

func NewBackfillService(
	oracle Oracle,
	pools []PoolSource,
	admin common.Address,
	metrics Metrics,
	cfg BackfillConfig,
	logger *zap.Logger,
) (*BackfillService, error) {
	if oracle == nil {
		return nil, errors.New("backfill service oracle is required")
	}
	if len(pools) == 0 {
		return nil, errors.New("backfill service needs at least one pool")
	}
	if metrics == nil {
		return nil, errors.New("backfill service metrics is required")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultBackfillLimit
	}
	if cfg.Interval <= 0 {
		cfg.Interval = idleSleepDuration
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}

	return &BackfillService{
		oracle:                 oracle,
		pools:                  pools,
		admin:                  admin,
		metrics:                metrics,
		logger:                 logger.Named("backfill"),
		sleep:                  clock.SleepWithContext,
		idleSleepDuration:      cfg.Interval,
		postBatchSleepDuration: postBatchSleepDuration,
		firstDay:               cfg.FirstDay,
		limit:                  cfg.Limit,
		workerCount:            cfg.WorkerCount,
	}, nil
}

func (s *BackfillService) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.idleSleepDuration))
			if sleepErr := s.sleep(ctx, s.idleSleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *BackfillService) run(ctx context.Context) error {
	started := time.Now()
	days := s.missingDays()
	s.metrics.ObserveFetchMissing(nil, started)

	if len(days) == 0 {
		s.logger.Info("no missing days; going idle", zap.Duration("sleep", s.idleSleepDuration))
		return s.sleep(ctx, s.idleSleepDuration)
	}

	s.logger.Info("processing batch", zap.Int("day_count", len(days)))
	started = time.Now()
	for _, day := range days {
		dayStarted := time.Now()
		err := s.processDay(ctx, day)
		s.metrics.ObserveProcessDay(err, day, dayStarted)
		if err != nil {
			s.metrics.ObserveProcessBatch(err, len(days), started)
			s.logger.Error("complement day failed", zap.Uint64("day", day), zap.Error(err))
			return err
		}
	}
	s.metrics.ObserveProcessBatch(nil, len(days), started)

	return s.sleep(ctx, s.postBatchSleepDuration)
}

// missingDays lists up to limit days in [firstDay, yesterday] without a round.
func (s *BackfillService) missingDays() []uint64 {
	today := s.oracle.Today()
	if today == 0 || today <= s.firstDay {
		return nil
	}

	days := s.oracle.MissingDays(s.firstDay, today-1)
	if len(days) > s.limit {
		days = days[:s.limit]
	}
	return days
}

func (s *BackfillService) processDay(ctx context.Context, day uint64) error {
	earnings, hashrates, err := fetchReports(ctx, s.pools, s.workerCount, day)
	if err != nil {
		return err
	}

	round, err := s.oracle.ComplementDailyEarnings(s.admin, day, earnings, hashrates)
	if errors.Is(err, model.ErrAlreadyDone) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("day complemented",
		zap.Uint64("day", round.Day),
		zap.String("value", round.Value.Dec()),
	)
	return nil
}
