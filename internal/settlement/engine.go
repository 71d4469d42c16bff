// Package settlement implements the staged settlement engine for
// hashrate-backed mining yield instruments: binding, daily delivery and
// accrual, the initial payment, maturity and liquidation.
package settlement

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/bank"
	"github.com/goodnatureofminers/hashyield-backend/internal/clock"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

type (
	Bank interface {
		Apply(ops ...bank.Op) error
		Balance(asset model.Asset, owner common.Address) *uint256.Int
	}
	EarningsOracle interface {
		Round(day uint64) (model.Round, bool)
	}
	PriceFeed interface {
		CurrentPrice() (*uint256.Int, error)
	}
	Instruments interface {
		OwnerOf(id model.InstrumentID) (common.Address, error)
		GetApproved(id model.InstrumentID) common.Address
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
		SetState(stage model.Stage, sold, delivered uint64)
	}
)

// accScale is the fixed-point scale of the per-unit reward accumulator.
var accScale = uint256.NewInt(1_000_000_000_000_000_000)

// Engine is one settlement contract. A single mutex serialises every
// operation so each one applies fully or not at all.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	bank    Bank
	oracle  EarningsOracle
	price   PriceFeed
	metrics Metrics
	logger  *zap.Logger
	clock   *clock.Clamped
	sink    model.EventSink

	address       common.Address
	escrow        common.Address
	rewards       common.Address
	taxAccount    common.Address
	optionAccount common.Address

	issuer       common.Address
	registry     Instruments
	registryAddr common.Address

	sold    uint64
	ledger  map[model.InstrumentID]uint64
	holders map[model.InstrumentID]common.Address
	debt    map[model.InstrumentID]*uint256.Int
	claimed map[model.InstrumentID]bool

	deliveries     []Delivery
	acc            *uint256.Int
	accRemainder   *uint256.Int
	totalDelivered *uint256.Int
	totalClaimed   *uint256.Int
	rewardSwept    *uint256.Int

	initial      *InitialPayment
	liquidations []*LiquidationRecord
	withdrawn    bool

	seq     uint64
	pending []model.Event
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock sets the time source. The engine never observes time going backwards.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock.NewClamped(now)
	}
}

// WithEventSink sets the receiver of engine events.
func WithEventSink(sink model.EventSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithPriceFeed sets the reward-asset price source of the dynamic ratio profile.
func WithPriceFeed(feed PriceFeed) Option {
	return func(e *Engine) {
		e.price = feed
	}
}

// New constructs an Engine. Its custody accounts are derived from cfg.Name.
func New(cfg Config, b Bank, oracle EarningsOracle, metrics Metrics, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settlement config: %w", err)
	}
	if b == nil {
		return nil, errors.New("settlement bank is required")
	}
	if oracle == nil {
		return nil, errors.New("settlement earnings oracle is required")
	}
	if metrics == nil {
		return nil, errors.New("settlement metrics is required")
	}

	e := &Engine{
		cfg:            cfg,
		bank:           b,
		oracle:         oracle,
		metrics:        metrics,
		logger:         logger.Named("settlement").With(zap.String("engine", cfg.Name)),
		clock:          clock.NewClamped(time.Now),
		sink:           model.NopSink{},
		address:        bank.ModuleAddress(cfg.Name),
		escrow:         bank.ModuleAddress(cfg.Name + "/escrow"),
		rewards:        bank.ModuleAddress(cfg.Name + "/rewards"),
		taxAccount:     bank.ModuleAddress(cfg.Name + "/tax"),
		optionAccount:  bank.ModuleAddress(cfg.Name + "/option"),
		issuer:         cfg.Issuer,
		ledger:         make(map[model.InstrumentID]uint64),
		holders:        make(map[model.InstrumentID]common.Address),
		debt:           make(map[model.InstrumentID]*uint256.Int),
		claimed:        make(map[model.InstrumentID]bool),
		acc:            new(uint256.Int),
		accRemainder:   new(uint256.Int),
		totalDelivered: new(uint256.Int),
		totalClaimed:   new(uint256.Int),
		rewardSwept:    new(uint256.Int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !cfg.FixedRatio() && e.price == nil {
		return nil, errors.New("dynamic ratio profile requires a price feed")
	}
	return e, nil
}

// Address is the spender address payers and the issuer approve.
func (e *Engine) Address() common.Address {
	return e.address
}

// EscrowAccount holds buyer funds.
func (e *Engine) EscrowAccount() common.Address {
	return e.escrow
}

// RewardsAccount holds delivered proceeds until claimed.
func (e *Engine) RewardsAccount() common.Address {
	return e.rewards
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) lock() time.Time {
	e.mu.Lock()
	return e.clock.Now()
}

// unlock releases the engine and delivers events queued by the operation.
func (e *Engine) unlock() {
	events := e.pending
	e.pending = nil
	stage := DeriveStage(e.cfg, uint64(len(e.deliveries)), e.clock.Now())
	sold, delivered := e.sold, uint64(len(e.deliveries))
	e.mu.Unlock()

	if len(events) == 0 {
		return
	}
	e.metrics.SetState(stage, sold, delivered)
	for _, ev := range events {
		e.sink.Emit(ev)
	}
}

func (e *Engine) stage(now time.Time) model.Stage {
	return DeriveStage(e.cfg, uint64(len(e.deliveries)), now)
}

func (e *Engine) requireStage(now time.Time, allowed ...model.Stage) (model.Stage, error) {
	current := e.stage(now)
	for _, s := range allowed {
		if current == s {
			return current, nil
		}
	}
	return current, fmt.Errorf("stage %s: %w", current, model.ErrStageMismatch)
}

func (e *Engine) requireAdmin(caller common.Address) error {
	if caller != e.cfg.Admin {
		return fmt.Errorf("%s is not admin: %w", caller.Hex(), model.ErrAccessDenied)
	}
	return nil
}

func (e *Engine) queue(ev model.Event, now time.Time) {
	e.seq++
	ev.Source = e.cfg.Name
	ev.Seq = e.seq
	ev.Time = now
	e.pending = append(e.pending, ev)
}

func (e *Engine) observe(operation string, err error, started time.Time) {
	e.metrics.Observe(operation, err, started)
	if err != nil {
		e.logger.Debug("operation rejected", zap.String("operation", operation), zap.Error(err))
	}
}
