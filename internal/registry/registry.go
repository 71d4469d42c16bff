// Package registry issues the instruments that represent bound hashrate.
// Every purchase and claim goes through the settlement engine; the registry
// only keeps ownership, approvals and the free-mint allowlist.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/bank"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
	"github.com/goodnatureofminers/hashyield-backend/pkg/merkle"
	"go.uber.org/zap"
)

// Config describes a registry instance.
type Config struct {
	Name           string
	Admin          common.Address
	WhitelistRoot  common.Hash
	WhitelistLimit uint64
	FreeMintSupply uint64
}

// Registry is the instrument registry bound to one settlement engine.
//
// The engine calls OwnerOf and GetApproved while holding its own lock, so the
// registry never holds its lock while calling the engine.
type Registry struct {
	mu sync.RWMutex

	name    string
	admin   common.Address
	address common.Address
	engine  Engine
	metrics Metrics
	logger  *zap.Logger
	sink    model.EventSink

	root           common.Hash
	whitelistLimit uint64
	freeMintSupply uint64
	freeMinted     uint64
	freeMintedBy   map[common.Address]uint64

	burnOnClaim bool

	lastID    model.InstrumentID
	owners    map[model.InstrumentID]common.Address
	approvals map[model.InstrumentID]common.Address
	// burning holds instruments whose final claim is in the engine.
	burning map[model.InstrumentID]struct{}
	seq     uint64
}

// Option customises a Registry.
type Option func(*Registry)

// WithEventSink sets the receiver of registry events.
func WithEventSink(sink model.EventSink) Option {
	return func(r *Registry) {
		r.sink = sink
	}
}

// New constructs a Registry. Its account address is derived from cfg.Name;
// free mints are paid from that account. Whether a claim destroys the
// instrument follows the engine profile.
func New(cfg Config, engine Engine, metrics Metrics, logger *zap.Logger, opts ...Option) (*Registry, error) {
	if cfg.Name == "" {
		return nil, errors.New("registry name is required")
	}
	if cfg.Admin == (common.Address{}) {
		return nil, fmt.Errorf("registry admin: %w", model.ErrInvalidInput)
	}
	if engine == nil {
		return nil, errors.New("registry engine is required")
	}
	if metrics == nil {
		return nil, errors.New("registry metrics is required")
	}

	r := &Registry{
		name:           cfg.Name,
		admin:          cfg.Admin,
		address:        Address(cfg.Name),
		engine:         engine,
		metrics:        metrics,
		logger:         logger.Named("registry").With(zap.String("registry", cfg.Name)),
		sink:           model.NopSink{},
		root:           cfg.WhitelistRoot,
		whitelistLimit: cfg.WhitelistLimit,
		freeMintSupply: cfg.FreeMintSupply,
		freeMintedBy:   make(map[common.Address]uint64),
		owners:         make(map[model.InstrumentID]common.Address),
		approvals:      make(map[model.InstrumentID]common.Address),
		burning:        make(map[model.InstrumentID]struct{}),
		burnOnClaim:    engine.Config().Profile.BurnOnClaim,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Address derives the account of the registry called name.
func Address(name string) common.Address {
	return bank.ModuleAddress("registry/" + name)
}

// Address is the account the engine recognises as the registry.
func (r *Registry) Address() common.Address {
	return r.address
}

// Mint issues a new instrument to to, bound to amount units of hashrate that
// caller pays for.
func (r *Registry) Mint(caller common.Address, amount uint64, to common.Address) (id model.InstrumentID, err error) {
	started := time.Now()
	defer func() { r.observe("mint", err, started) }()

	if to == (common.Address{}) || amount == 0 {
		return 0, fmt.Errorf("mint %d units to %s: %w", amount, to.Hex(), model.ErrInvalidInput)
	}

	id = r.allocate()
	if err = r.engine.PayForMint(r.address, id, amount, caller); err != nil {
		return 0, fmt.Errorf("mint instrument %d: %w", id, err)
	}
	r.issue(id, caller, to, amount)
	return id, nil
}

// FreeMint issues one hashrate unit paid from the registry account to to.
// caller must be on the allowlist and within its limit.
func (r *Registry) FreeMint(caller common.Address, proof []common.Hash, to common.Address) (id model.InstrumentID, err error) {
	started := time.Now()
	defer func() { r.observe("free_mint", err, started) }()

	if to == (common.Address{}) {
		return 0, fmt.Errorf("free mint to %s: %w", to.Hex(), model.ErrInvalidInput)
	}

	r.mu.Lock()
	switch {
	case r.root == (common.Hash{}) || !merkle.Verify(proof, merkle.Leaf(caller), r.root):
		err = fmt.Errorf("%s is not allowlisted: %w", caller.Hex(), model.ErrAccessDenied)
	case r.freeMintedBy[caller] >= r.whitelistLimit:
		err = fmt.Errorf("%s used %d free mints: %w", caller.Hex(), r.freeMintedBy[caller], model.ErrInsufficientCapacity)
	case r.freeMinted >= r.freeMintSupply:
		err = fmt.Errorf("free mint supply %d exhausted: %w", r.freeMintSupply, model.ErrInsufficientCapacity)
	}
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.freeMintedBy[caller]++
	r.freeMinted++
	r.lastID++
	id = r.lastID
	r.mu.Unlock()

	if err = r.engine.PayForMint(r.address, id, 1, r.address); err != nil {
		r.mu.Lock()
		r.freeMintedBy[caller]--
		r.freeMinted--
		r.mu.Unlock()
		return 0, fmt.Errorf("free mint instrument %d: %w", id, err)
	}
	r.issue(id, r.address, to, 1)
	return id, nil
}

// OwnerOf returns the owner of id.
func (r *Registry) OwnerOf(id model.InstrumentID) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	if !ok {
		return common.Address{}, fmt.Errorf("instrument %d: %w", id, model.ErrInvalidInput)
	}
	return owner, nil
}

// GetApproved returns the account allowed to transfer id, zero if none.
func (r *Registry) GetApproved(id model.InstrumentID) common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.approvals[id]
}

// Approve lets spender transfer id once. A zero spender clears the approval.
func (r *Registry) Approve(caller common.Address, id model.InstrumentID, spender common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOwner(caller, id, false); err != nil {
		return err
	}
	if spender == (common.Address{}) {
		delete(r.approvals, id)
		return nil
	}
	r.approvals[id] = spender
	return nil
}

// TransferFrom moves id from from to to. The caller is the owner or the
// approved account; the approval is cleared.
func (r *Registry) TransferFrom(caller, from, to common.Address, id model.InstrumentID) (err error) {
	started := time.Now()
	defer func() { r.observe("transfer", err, started) }()

	if to == (common.Address{}) {
		return fmt.Errorf("transfer to %s: %w", to.Hex(), model.ErrInvalidInput)
	}

	r.mu.Lock()
	owner, ok := r.owners[id]
	switch {
	case !ok:
		err = fmt.Errorf("instrument %d: %w", id, model.ErrInvalidInput)
	case r.isBurning(id):
		err = fmt.Errorf("instrument %d is being burned: %w", id, model.ErrAlreadyDone)
	case owner != from:
		err = fmt.Errorf("instrument %d not owned by %s: %w", id, from.Hex(), model.ErrAccessDenied)
	case caller != owner && r.approvals[id] != caller:
		err = fmt.Errorf("%s may not transfer instrument %d: %w", caller.Hex(), id, model.ErrAccessDenied)
	}
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.owners[id] = to
	delete(r.approvals, id)
	ev := r.event(model.Event{Type: model.EventInstrumentTransferred, Instrument: id, Account: from, Counterparty: to})
	r.mu.Unlock()

	r.sink.Emit(ev)
	r.logger.Info("instrument transferred",
		zap.Uint64("instrument", uint64(id)),
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
	)
	return nil
}

// Claim collects the settlement of id for its owner. Under the burn-on-claim
// profile the instrument is destroyed as with Burn; otherwise it is kept.
func (r *Registry) Claim(caller common.Address, id model.InstrumentID) (res settlement.ClaimResult, err error) {
	started := time.Now()
	defer func() { r.observe("claim", err, started) }()

	if r.burnOnClaim {
		return r.burn(caller, id)
	}
	if err = r.requireOwner(caller, id, false); err != nil {
		return settlement.ClaimResult{}, err
	}
	return r.engine.Claim(r.address, id)
}

// Burn collects the settlement of id for its owner and destroys it. It is
// refused while a transfer approval is pending and when the engine does not
// burn on claim.
func (r *Registry) Burn(caller common.Address, id model.InstrumentID) (res settlement.ClaimResult, err error) {
	started := time.Now()
	defer func() { r.observe("burn", err, started) }()

	if !r.burnOnClaim {
		return settlement.ClaimResult{}, fmt.Errorf("burn instrument %d: registry keeps claimed instruments: %w", id, model.ErrInvalidInput)
	}
	return r.burn(caller, id)
}

// burn marks id as burning so it cannot be approved or transferred while the
// engine pays the claim, then drops it on success.
func (r *Registry) burn(caller common.Address, id model.InstrumentID) (settlement.ClaimResult, error) {
	r.mu.Lock()
	err := r.checkOwner(caller, id, true)
	if err == nil {
		r.burning[id] = struct{}{}
	}
	r.mu.Unlock()
	if err != nil {
		return settlement.ClaimResult{}, err
	}

	res, err := r.engine.Claim(r.address, id)

	r.mu.Lock()
	delete(r.burning, id)
	if err != nil {
		r.mu.Unlock()
		return settlement.ClaimResult{}, err
	}
	delete(r.owners, id)
	delete(r.approvals, id)
	ev := r.event(model.Event{Type: model.EventInstrumentBurned, Instrument: id, Account: res.Owner})
	r.mu.Unlock()

	r.sink.Emit(ev)
	r.logger.Info("instrument burned", zap.Uint64("instrument", uint64(id)), zap.String("owner", res.Owner.Hex()))
	return res, nil
}

// SetWhitelistRoot replaces the free-mint allowlist root.
func (r *Registry) SetWhitelistRoot(caller common.Address, root common.Hash) error {
	return r.setAdmin(caller, "whitelist root", func() { r.root = root })
}

// SetWhitelistLimit sets how many free mints one allowlisted account gets.
func (r *Registry) SetWhitelistLimit(caller common.Address, limit uint64) error {
	return r.setAdmin(caller, "whitelist limit", func() { r.whitelistLimit = limit })
}

// SetFreeMintSupply sets the total number of free mints.
func (r *Registry) SetFreeMintSupply(caller common.Address, supply uint64) error {
	return r.setAdmin(caller, "free mint supply", func() { r.freeMintSupply = supply })
}

// FreeMinted returns the free mints used in total and by account.
func (r *Registry) FreeMinted(account common.Address) (total, byAccount uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.freeMinted, r.freeMintedBy[account]
}

func (r *Registry) setAdmin(caller common.Address, what string, apply func()) error {
	if caller != r.admin {
		return fmt.Errorf("%s is not admin: %w", caller.Hex(), model.ErrAccessDenied)
	}
	r.mu.Lock()
	apply()
	r.mu.Unlock()
	r.logger.Info("registry setting changed", zap.String("setting", what))
	return nil
}

func (r *Registry) requireOwner(caller common.Address, id model.InstrumentID, noApproval bool) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.checkOwner(caller, id, noApproval)
}

// checkOwner must be called with r.mu held.
func (r *Registry) checkOwner(caller common.Address, id model.InstrumentID, noApproval bool) error {
	if r.isBurning(id) {
		return fmt.Errorf("instrument %d is being burned: %w", id, model.ErrAlreadyDone)
	}
	owner, ok := r.owners[id]
	if !ok {
		return fmt.Errorf("instrument %d: %w", id, model.ErrInvalidInput)
	}
	if owner != caller {
		return fmt.Errorf("%s does not own instrument %d: %w", caller.Hex(), id, model.ErrAccessDenied)
	}
	if approved := r.approvals[id]; noApproval && approved != (common.Address{}) {
		return fmt.Errorf("instrument %d approved to %s: %w", id, approved.Hex(), model.ErrTransferPending)
	}
	return nil
}

func (r *Registry) isBurning(id model.InstrumentID) bool {
	_, ok := r.burning[id]
	return ok
}

func (r *Registry) allocate() model.InstrumentID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	return r.lastID
}

func (r *Registry) issue(id model.InstrumentID, payer, to common.Address, amount uint64) {
	r.mu.Lock()
	r.owners[id] = to
	ev := r.event(model.Event{
		Type:         model.EventInstrumentMinted,
		Instrument:   id,
		Account:      to,
		Counterparty: payer,
		Reference:    amount,
	})
	r.mu.Unlock()

	r.sink.Emit(ev)
	r.logger.Info("instrument minted",
		zap.Uint64("instrument", uint64(id)),
		zap.String("owner", to.Hex()),
		zap.Uint64("amount", amount),
	)
}

func (r *Registry) event(ev model.Event) model.Event {
	r.seq++
	ev.Source = r.name
	ev.Seq = r.seq
	ev.Time = time.Now().UTC()
	return ev
}

func (r *Registry) observe(operation string, err error, started time.Time) {
	r.metrics.Observe(operation, err, started)
	if err != nil {
		r.logger.Debug("operation rejected", zap.String("operation", operation), zap.Error(err))
	}
}
