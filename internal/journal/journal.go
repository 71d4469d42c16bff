// Package journal persists engine and oracle events to ClickHouse.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/batcher"
	"go.uber.org/zap"
)

// ErrDropped is reported when the queue in front of the repository is full.
var ErrDropped = errors.New("journal queue full")

// Journal is a model.EventSink. Emit never blocks: it is called while the
// emitting component holds its lock.
type Journal struct {
	repo    Repository
	metrics Metrics
	logger  *zap.Logger
	events  *batcher.Batcher[model.JournalEntry]
}

func New(repo Repository, metrics Metrics, logger *zap.Logger, cfg batcher.Config) (*Journal, error) {
	if repo == nil {
		return nil, errors.New("journal repository is required")
	}
	if metrics == nil {
		return nil, errors.New("journal metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Journal{
		repo:    repo,
		metrics: metrics,
		logger:  logger.Named("journal"),
	}
	j.events = batcher.New(j.logger, j.flush, cfg, batcher.WithFlushObserver[model.JournalEntry](metrics.ObserveFlush))
	return j, nil
}

// Start begins flushing in the background until ctx is done or Stop is called.
func (j *Journal) Start(ctx context.Context) {
	j.events.Start(ctx)
}

// Stop flushes what is queued and waits for the flush to finish.
func (j *Journal) Stop() {
	j.events.Stop()
}

// Emit implements model.EventSink.
func (j *Journal) Emit(e model.Event) {
	entry := model.JournalEntry{ID: EntryID(e), Event: e}

	var err error
	if !j.events.TryAdd(entry) {
		err = ErrDropped
		j.logger.Warn("event dropped",
			zap.String("source", e.Source),
			zap.String("type", string(e.Type)),
			zap.Uint64("seq", e.Seq),
		)
	}
	j.metrics.ObserveEvent(e.Source, err)
}

func (j *Journal) flush(ctx context.Context, entries []model.JournalEntry) error {
	if err := j.repo.InsertEvents(ctx, entries); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	rounds := roundsOf(entries)
	if len(rounds) == 0 {
		return nil
	}
	if err := j.repo.InsertRounds(ctx, rounds); err != nil {
		return fmt.Errorf("insert rounds: %w", err)
	}
	return nil
}

// EntryID is the hex double SHA-256 of the event's type, sequence and
// payload. Re-emitting the same event yields the same id.
func EntryID(e model.Event) string {
	fields := []string{
		string(e.Type),
		strconv.FormatUint(e.Seq, 10),
		e.Source,
		strconv.FormatInt(e.Time.UnixNano(), 10),
		strconv.FormatUint(e.Day, 10),
		strconv.FormatUint(uint64(e.Instrument), 10),
		e.Account.Hex(),
		e.Counterparty.Hex(),
		e.AmountString(),
		strconv.FormatUint(e.Ratio, 10),
		strconv.FormatBool(e.Clamped),
		strconv.FormatUint(e.Reference, 10),
		strconv.FormatUint(uint64(e.Pools), 10),
	}
	return chainhash.HashH([]byte(strings.Join(fields, "|"))).String()
}

func roundsOf(entries []model.JournalEntry) []model.Round {
	var rounds []model.Round
	for _, e := range entries {
		var kind model.RoundKind
		switch e.Type {
		case model.EventDailyEarningsTracked:
			kind = model.RoundTracked
		case model.EventDailyEarningsComplemented:
			kind = model.RoundComplemented
		default:
			continue
		}
		rounds = append(rounds, model.Round{
			Oracle:     e.Source,
			Day:        e.Day,
			Value:      e.Amount,
			Kind:       kind,
			Pools:      e.Pools,
			Hashrate:   e.Reference,
			RecordedAt: e.Time,
		})
	}
	return rounds
}
