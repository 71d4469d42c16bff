// Package tracker feeds the earnings oracle from mining pool reports.
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

// TrackConfig configures the daily submission loop.
type TrackConfig struct {
	// SubmitOffset is how far into the day the round is submitted.
	SubmitOffset time.Duration
	Interval     time.Duration
	WorkerCount  int
}

// TrackService submits today's round as a tracker once the day is far
// enough along.
type TrackService struct {
	oracle            Oracle
	pools             []PoolSource
	identity          common.Address
	metrics           Metrics
	logger            *zap.Logger
	now               func() time.Time
	sleep             func(context.Context, time.Duration) error
	submitOffset      time.Duration
	idleSleepDuration time.Duration
	workerCount       int
}

func NewTrackService(
	oracle Oracle,
	pools []PoolSource,
	identity common.Address,
	metrics Metrics,
	cfg TrackConfig,
	logger *zap.Logger,
) (*TrackService, error) {
	if oracle == nil {
		return nil, errors.New("track service oracle is required")
	}
	if len(pools) == 0 {
		return nil, errors.New("track service needs at least one pool")
	}
	if metrics == nil {
		return nil, errors.New("track service metrics is required")
	}
	if cfg.SubmitOffset <= 0 || cfg.SubmitOffset >= model.SecondsPerDay*time.Second {
		cfg.SubmitOffset = defaultSubmitOffset
	}
	if cfg.Interval <= 0 {
		cfg.Interval = idleSleepDuration
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}

	return &TrackService{
		oracle:            oracle,
		pools:             pools,
		identity:          identity,
		metrics:           metrics,
		logger:            logger.Named("track").With(zap.String("tracker", identity.Hex())),
		now:               time.Now,
		sleep:             clock.SleepWithContext,
		submitOffset:      cfg.SubmitOffset,
		idleSleepDuration: cfg.Interval,
		workerCount:       cfg.WorkerCount,
	}, nil
}

func (s *TrackService) Run(ctx context.Context) error {
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

func (s *TrackService) run(ctx context.Context) error {
	started := time.Now()
	day, due := s.due()
	s.metrics.ObserveFetchMissing(nil, started)

	if !due {
		s.logger.Debug("nothing to submit; going idle", zap.Uint64("day", day), zap.Duration("sleep", s.idleSleepDuration))
		return s.sleep(ctx, s.idleSleepDuration)
	}

	started = time.Now()
	err := s.processDay(ctx, day)
	s.metrics.ObserveProcessDay(err, day, started)
	s.metrics.ObserveProcessBatch(err, 1, started)
	if err != nil {
		s.logger.Error("submit round failed", zap.Uint64("day", day), zap.Error(err))
		return err
	}

	return s.sleep(ctx, s.idleSleepDuration)
}

// due reports today's index and whether its round should be submitted now.
func (s *TrackService) due() (uint64, bool) {
	day := s.oracle.Today()
	if _, ok := s.oracle.Round(day); ok {
		return day, false
	}
	return day, !s.now().Before(model.DayStart(day).Add(s.submitOffset))
}

func (s *TrackService) processDay(ctx context.Context, day uint64) error {
	earnings, hashrates, err := fetchReports(ctx, s.pools, s.workerCount, day)
	if err != nil {
		return err
	}

	round, err := s.oracle.TrackDailyEarnings(s.identity, earnings, hashrates)
	if errors.Is(err, model.ErrAlreadyDone) {
		s.logger.Info("round already submitted", zap.Uint64("day", day))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("round submitted",
		zap.Uint64("day", round.Day),
		zap.String("value", round.Value.Dec()),
		zap.Uint32("pools", round.Pools),
	)
	return nil
}
