// Package oracle aggregates per-pool daily earnings into one hashrate-weighted
// round per day.
package oracle

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/clock"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

type (
	Metrics interface {
		ObserveRound(kind string, err error, started time.Time)
		SetLastRound(day uint64, value float64)
	}
)

// Config describes an oracle instance.
type Config struct {
	Name     string
	Admin    common.Address
	Trackers []common.Address
}

// Oracle is the earnings oracle. Every method is safe for concurrent use and
// every submission is applied atomically.
type Oracle struct {
	mu       sync.RWMutex
	name     string
	admin    common.Address
	trackers map[common.Address]struct{}
	rounds   map[uint64]model.Round
	last     uint64
	hasLast  bool
	seq      uint64

	clock   *clock.Clamped
	sink    model.EventSink
	metrics Metrics
	logger  *zap.Logger
}

// Option customises an Oracle.
type Option func(*Oracle)

// WithClock sets the time source. The oracle never observes time going backwards.
func WithClock(now func() time.Time) Option {
	return func(o *Oracle) {
		o.clock = clock.NewClamped(now)
	}
}

// WithEventSink sets the receiver of oracle events.
func WithEventSink(sink model.EventSink) Option {
	return func(o *Oracle) {
		o.sink = sink
	}
}

// New constructs an Oracle.
func New(cfg Config, metrics Metrics, logger *zap.Logger, opts ...Option) (*Oracle, error) {
	if cfg.Name == "" {
		return nil, errors.New("oracle name is required")
	}
	if cfg.Admin == (common.Address{}) {
		return nil, fmt.Errorf("oracle admin: %w", model.ErrInvalidInput)
	}
	if metrics == nil {
		return nil, errors.New("oracle metrics is required")
	}

	o := &Oracle{
		name:     cfg.Name,
		admin:    cfg.Admin,
		trackers: make(map[common.Address]struct{}, len(cfg.Trackers)),
		rounds:   make(map[uint64]model.Round),
		clock:    clock.NewClamped(time.Now),
		sink:     model.NopSink{},
		metrics:  metrics,
		logger:   logger.Named("oracle").With(zap.String("oracle", cfg.Name)),
	}
	for _, t := range cfg.Trackers {
		if t == (common.Address{}) {
			return nil, fmt.Errorf("oracle tracker: %w", model.ErrInvalidInput)
		}
		o.trackers[t] = struct{}{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Name returns the oracle name.
func (o *Oracle) Name() string {
	return o.name
}

// Today returns the current day index.
func (o *Oracle) Today() uint64 {
	return model.DayIndex(o.clock.Now())
}

// TrackDailyEarnings stores today's round from the per-pool reports.
func (o *Oracle) TrackDailyEarnings(caller common.Address, earnings, hashrates []uint64) (round model.Round, err error) {
	started := time.Now()
	defer func() {
		o.metrics.ObserveRound(string(model.RoundTracked), err, started)
	}()

	now := o.clock.Now()
	today := model.DayIndex(now)

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.isTracker(caller) {
		return model.Round{}, fmt.Errorf("track daily earnings by %s: %w", caller.Hex(), model.ErrAccessDenied)
	}
	if _, ok := o.rounds[today]; ok {
		return model.Round{}, fmt.Errorf("round for day %d: %w", today, model.ErrAlreadyDone)
	}
	value, hashrate, err := Aggregate(earnings, hashrates)
	if err != nil {
		return model.Round{}, err
	}

	round = o.store(today, value, model.RoundTracked, len(earnings), hashrate, now)
	o.emit(model.EventDailyEarningsTracked, caller, round)
	o.logger.Info("daily earnings tracked",
		zap.Uint64("day", today),
		zap.String("value", value.Dec()),
		zap.Int("pools", len(earnings)),
	)
	return round, nil
}

// ComplementDailyEarnings backfills a missed past day. Existing rounds and
// today are never overwritten.
func (o *Oracle) ComplementDailyEarnings(caller common.Address, day uint64, earnings, hashrates []uint64) (round model.Round, err error) {
	started := time.Now()
	defer func() {
		o.metrics.ObserveRound(string(model.RoundComplemented), err, started)
	}()

	now := o.clock.Now()
	today := model.DayIndex(now)

	o.mu.Lock()
	defer o.mu.Unlock()

	if caller != o.admin {
		return model.Round{}, fmt.Errorf("complement daily earnings by %s: %w", caller.Hex(), model.ErrAccessDenied)
	}
	if day >= today {
		return model.Round{}, fmt.Errorf("complement day %d not before today %d: %w", day, today, model.ErrInvalidInput)
	}
	if _, ok := o.rounds[day]; ok {
		return model.Round{}, fmt.Errorf("round for day %d: %w", day, model.ErrAlreadyDone)
	}
	value, hashrate, err := Aggregate(earnings, hashrates)
	if err != nil {
		return model.Round{}, err
	}

	round = o.store(day, value, model.RoundComplemented, len(earnings), hashrate, now)
	o.emit(model.EventDailyEarningsComplemented, caller, round)
	o.logger.Info("daily earnings complemented",
		zap.Uint64("day", day),
		zap.String("value", value.Dec()),
		zap.Int("pools", len(earnings)),
	)
	return round, nil
}

// Round returns the round stored for day.
func (o *Oracle) Round(day uint64) (model.Round, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	r, ok := o.rounds[day]
	if !ok {
		return model.Round{}, false
	}
	return copyRound(r), true
}

// LastRound returns the round with the highest day index.
func (o *Oracle) LastRound() (model.Round, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.hasLast {
		return model.Round{}, false
	}
	return copyRound(o.rounds[o.last]), true
}

// MissingDays lists days in [from, to] that have no round, ascending.
func (o *Oracle) MissingDays(from, to uint64) []uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var days []uint64
	for day := from; day <= to; day++ {
		if _, ok := o.rounds[day]; !ok {
			days = append(days, day)
		}
		if day == ^uint64(0) {
			break
		}
	}
	return days
}

// AddTracker grants the tracker role.
func (o *Oracle) AddTracker(caller, tracker common.Address) error {
	return o.setTracker(caller, tracker, true)
}

// RemoveTracker revokes the tracker role.
func (o *Oracle) RemoveTracker(caller, tracker common.Address) error {
	return o.setTracker(caller, tracker, false)
}

// IsTracker reports whether account holds the tracker role.
func (o *Oracle) IsTracker(account common.Address) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.isTracker(account)
}

// Restore loads persisted rounds into an oracle that has none yet.
func (o *Oracle) Restore(rounds []model.Round) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.rounds) > 0 {
		return fmt.Errorf("restore into populated oracle: %w", model.ErrAlreadyDone)
	}

	sorted := make([]model.Round, len(rounds))
	copy(sorted, rounds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	for i, r := range sorted {
		if r.Value == nil {
			return fmt.Errorf("restore day %d without value: %w", r.Day, model.ErrInvalidInput)
		}
		if i > 0 && sorted[i-1].Day == r.Day {
			return fmt.Errorf("restore duplicate day %d: %w", r.Day, model.ErrInvalidInput)
		}
	}
	for _, r := range sorted {
		r.Oracle = o.name
		o.rounds[r.Day] = copyRound(r)
		o.last, o.hasLast = r.Day, true
	}
	if o.hasLast {
		o.metrics.SetLastRound(o.last, asFloat(o.rounds[o.last].Value))
	}
	o.logger.Info("rounds restored", zap.Int("count", len(sorted)))
	return nil
}

func (o *Oracle) setTracker(caller, tracker common.Address, grant bool) error {
	if tracker == (common.Address{}) {
		return fmt.Errorf("tracker: %w", model.ErrInvalidInput)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if caller != o.admin {
		return fmt.Errorf("manage tracker by %s: %w", caller.Hex(), model.ErrAccessDenied)
	}
	_, exists := o.trackers[tracker]
	if exists == grant {
		return fmt.Errorf("tracker %s: %w", tracker.Hex(), model.ErrAlreadyDone)
	}

	eventType := model.EventTrackerRemoved
	if grant {
		o.trackers[tracker] = struct{}{}
		eventType = model.EventTrackerAdded
	} else {
		delete(o.trackers, tracker)
	}

	o.seq++
	o.sink.Emit(model.Event{
		Source:       o.name,
		Type:         eventType,
		Seq:          o.seq,
		Time:         o.clock.Now(),
		Account:      caller,
		Counterparty: tracker,
	})
	o.logger.Info("tracker role changed", zap.String("tracker", tracker.Hex()), zap.Bool("granted", grant))
	return nil
}

func (o *Oracle) isTracker(account common.Address) bool {
	_, ok := o.trackers[account]
	return ok
}

func (o *Oracle) store(day uint64, value *uint256.Int, kind model.RoundKind, pools int, hashrate uint64, now time.Time) model.Round {
	r := model.Round{
		Oracle:     o.name,
		Day:        day,
		Value:      value,
		Kind:       kind,
		Pools:      uint32(pools),
		Hashrate:   hashrate,
		RecordedAt: now,
	}
	o.rounds[day] = r
	if !o.hasLast || day > o.last {
		o.last, o.hasLast = day, true
		o.metrics.SetLastRound(day, asFloat(value))
	}
	return copyRound(r)
}

func (o *Oracle) emit(t model.EventType, caller common.Address, r model.Round) {
	o.seq++
	o.sink.Emit(model.Event{
		Source:    o.name,
		Type:      t,
		Seq:       o.seq,
		Time:      r.RecordedAt,
		Day:       r.Day,
		Account:   caller,
		Amount:    new(uint256.Int).Set(r.Value),
		Reference: r.Hashrate,
		Pools:     r.Pools,
	})
}

func copyRound(r model.Round) model.Round {
	if r.Value != nil {
		r.Value = new(uint256.Int).Set(r.Value)
	}
	return r
}

func asFloat(v *uint256.Int) float64 {
	if v.IsUint64() {
		return float64(v.Uint64())
	}
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}
