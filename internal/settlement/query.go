package settlement

import (
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"github.com/holiman/uint256"
)

// Snapshot is a read-only view of the engine state.
type Snapshot struct {
	Name             string    `json:"name"`
	Stage            string    `json:"stage"`
	Time             time.Time `json:"time"`
	MintAllowed      bool      `json:"mint_allowed"`
	DeliverAllowed   bool      `json:"deliver_allowed"`
	Supply           uint64    `json:"supply"`
	Sold             uint64    `json:"sold"`
	Price            string    `json:"price"`
	Escrow           string    `json:"escrow"`
	Delivered        uint64    `json:"delivered"`
	DeliveryDays     uint64    `json:"delivery_days"`
	TotalDelivered   string    `json:"total_delivered"`
	RewardDust       string    `json:"reward_dust"`
	InitialRatio     uint64    `json:"initial_payment_ratio,omitempty"`
	InitialAmount    string    `json:"initial_payment,omitempty"`
	InitialClaimed   bool      `json:"initial_payment_claimed"`
	Liquidated       bool      `json:"liquidated"`
	DistributorDust  string    `json:"distributor_dust,omitempty"`
	Issuer           string    `json:"issuer"`
	InstrumentSource string    `json:"instrument_registry,omitempty"`
}

// InstrumentView is the per-instrument state.
type InstrumentView struct {
	ID               model.InstrumentID `json:"id"`
	Hashrate         uint64             `json:"hashrate"`
	RewardBalance    string             `json:"reward_balance"`
	Claimed          bool               `json:"claimed"`
	LiquidationShare string             `json:"liquidation_share,omitempty"`
	ShareClaimed     bool               `json:"liquidation_share_claimed"`
}

// Stage derives the current stage.
func (e *Engine) Stage() model.Stage {
	now := e.lock()
	defer e.mu.Unlock()
	return e.stage(now)
}

// MintAllowed reports whether hashrate can be bound now.
func (e *Engine) MintAllowed() bool {
	now := e.lock()
	defer e.mu.Unlock()
	return e.mintAllowed(now)
}

// DeliverAllowed reports whether the stage accepts deliveries.
func (e *Engine) DeliverAllowed() bool {
	now := e.lock()
	defer e.mu.Unlock()
	s := e.stage(now)
	return s == model.StageActiveObservation || s == model.StageActive
}

// Sold is the hashrate bound so far.
func (e *Engine) Sold() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sold
}

// Supply is the hashrate on offer.
func (e *Engine) Supply() uint64 {
	return e.cfg.Supply
}

// Price is the payment per unit of hashrate.
func (e *Engine) Price() *uint256.Int {
	return e.cfg.Price()
}

// Hashrate is the hashrate bound to id.
func (e *Engine) Hashrate(id model.InstrumentID) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger[id]
}

// RewardBalance is the unclaimed accrued reward of id.
func (e *Engine) RewardBalance(id model.InstrumentID) *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardBalance(id)
}

// RewardDust is delivered value no instrument can claim.
func (e *Engine) RewardDust() *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rewardDust()
}

// Delivered is the number of delivered days.
func (e *Engine) Delivered() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint64(len(e.deliveries))
}

// Delivery returns the record of the 1-based delivery day.
func (e *Engine) Delivery(day uint64) (Delivery, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if day == 0 || day > uint64(len(e.deliveries)) {
		return Delivery{}, false
	}
	return e.deliveries[day-1].clone(), true
}

// InitialPayment returns the initial payment once generated.
func (e *Engine) InitialPayment() (InitialPayment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initial == nil {
		return InitialPayment{}, false
	}
	return e.initial.clone(), true
}

// Escrow is the payment-asset balance held for holders.
func (e *Engine) Escrow() *uint256.Int {
	return e.bank.Balance(e.cfg.PaymentAsset, e.escrow)
}

// Liquidation returns the distributor once the contract is liquidated.
func (e *Engine) Liquidation() (LiquidationRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.liquidation()
	if r == nil {
		return LiquidationRecord{}, false
	}
	return r.clone(), true
}

// Instrument returns the per-instrument view; ok is false for unknown ids.
func (e *Engine) Instrument(id model.InstrumentID) (InstrumentView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	units, ok := e.ledger[id]
	if !ok {
		return InstrumentView{}, false
	}
	v := InstrumentView{
		ID:            id,
		Hashrate:      units,
		RewardBalance: e.rewardBalance(id).Dec(),
		Claimed:       e.claimed[id],
	}
	if r := e.liquidation(); r != nil {
		v.LiquidationShare = r.Share(id).Dec()
		v.ShareClaimed = r.Claimed[id]
	}
	return v, true
}

// Snapshot captures the engine state at the current time.
func (e *Engine) Snapshot() Snapshot {
	now := e.lock()
	defer e.mu.Unlock()

	stage := e.stage(now)
	s := Snapshot{
		Name:           e.cfg.Name,
		Stage:          stage.String(),
		Time:           now,
		MintAllowed:    e.mintAllowed(now),
		DeliverAllowed: stage == model.StageActiveObservation || stage == model.StageActive,
		Supply:         e.cfg.Supply,
		Sold:           e.sold,
		Price:          e.cfg.Price().Dec(),
		Escrow:         e.bank.Balance(e.cfg.PaymentAsset, e.escrow).Dec(),
		Delivered:      uint64(len(e.deliveries)),
		DeliveryDays:   e.cfg.DeliveryDays(),
		TotalDelivered: e.totalDelivered.Dec(),
		RewardDust:     e.rewardDust().Dec(),
		Issuer:         e.issuer.Hex(),
	}
	if e.initial != nil {
		s.InitialRatio = e.initial.Ratio
		s.InitialAmount = safe.Clone(e.initial.Amount).Dec()
		s.InitialClaimed = e.initial.Claimed
	}
	if r := e.liquidation(); r != nil {
		s.Liquidated = true
		s.DistributorDust = r.Dust().Dec()
	}
	if e.registry != nil {
		s.InstrumentSource = e.registryAddr.Hex()
	}
	return s
}
