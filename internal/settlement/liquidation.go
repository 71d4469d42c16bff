package settlement

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/bank"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// LiquidationRecord is the distributor created when a defaulted contract is
// liquidated. Balance and Ledger are frozen at creation.
type LiquidationRecord struct {
	ID      uint64                        `json:"id"`
	Account common.Address                `json:"account"`
	Balance *uint256.Int                  `json:"-"`
	Ledger  map[model.InstrumentID]uint64 `json:"-"`
	Total   uint64                        `json:"total"`
	Claimed map[model.InstrumentID]bool   `json:"-"`
	Paid    *uint256.Int                  `json:"-"`
	Swept   *uint256.Int                  `json:"-"`
	At      time.Time                     `json:"at"`
}

// Share is balance·ledger[id]/total, zero for instruments outside the snapshot.
func (r *LiquidationRecord) Share(id model.InstrumentID) *uint256.Int {
	units := r.Ledger[id]
	if units == 0 || r.Total == 0 {
		return new(uint256.Int)
	}
	share, err := safe.MulDiv(r.Balance, uint256.NewInt(units), uint256.NewInt(r.Total))
	if err != nil {
		return new(uint256.Int)
	}
	return share
}

// Dust is the part of the balance that pro-rata division leaves undistributed
// and has not been swept.
func (r *LiquidationRecord) Dust() *uint256.Int {
	distributable := new(uint256.Int)
	for id := range r.Ledger {
		distributable.Add(distributable, r.Share(id))
	}
	dust := new(uint256.Int).Sub(r.Balance, distributable)
	return dust.Sub(dust, r.Swept)
}

func (r *LiquidationRecord) clone() LiquidationRecord {
	c := *r
	c.Balance = safe.Clone(r.Balance)
	c.Paid = safe.Clone(r.Paid)
	c.Swept = safe.Clone(r.Swept)
	c.Ledger = make(map[model.InstrumentID]uint64, len(r.Ledger))
	for id, units := range r.Ledger {
		c.Ledger[id] = units
	}
	c.Claimed = make(map[model.InstrumentID]bool, len(r.Claimed))
	for id, done := range r.Claimed {
		c.Claimed[id] = done
	}
	return c
}

// Liquidate moves the whole escrow of a defaulted contract into a fresh
// distributor. It succeeds once.
func (e *Engine) Liquidate(caller common.Address) (rec LiquidationRecord, err error) {
	started := time.Now()
	defer func() { e.observe("liquidate", err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return LiquidationRecord{}, err
	}
	if _, err = e.requireStage(now, model.StageDefaulted); err != nil {
		return LiquidationRecord{}, err
	}
	if current := e.liquidation(); current != nil {
		return LiquidationRecord{}, fmt.Errorf("liquidated by distributor %d: %w", current.ID, model.ErrAlreadyDone)
	}

	id := uint64(len(e.liquidations)) + 1
	account := bank.ModuleAddress(fmt.Sprintf("%s/distributor/%d", e.cfg.Name, id))
	balance := e.bank.Balance(e.cfg.PaymentAsset, e.escrow)
	if err = e.bank.Apply(bank.Op{
		Asset:  e.cfg.PaymentAsset,
		From:   e.escrow,
		To:     account,
		Amount: balance,
	}); err != nil {
		return LiquidationRecord{}, fmt.Errorf("fund distributor: %w", err)
	}

	r := &LiquidationRecord{
		ID:      id,
		Account: account,
		Balance: balance,
		Ledger:  make(map[model.InstrumentID]uint64, len(e.ledger)),
		Total:   e.sold,
		Claimed: make(map[model.InstrumentID]bool),
		Paid:    new(uint256.Int),
		Swept:   new(uint256.Int),
		At:      now,
	}
	for instrument, units := range e.ledger {
		r.Ledger[instrument] = units
	}
	e.liquidations = append(e.liquidations, r)

	e.queue(model.Event{
		Type:         model.EventLiquidate,
		Account:      caller,
		Counterparty: account,
		Amount:       safe.Clone(balance),
		Reference:    id,
	}, now)
	e.logger.Info("contract liquidated",
		zap.Uint64("distributor", id),
		zap.String("account", account.Hex()),
		zap.String("balance", balance.Dec()),
		zap.Uint64("total", r.Total),
	)
	return r.clone(), nil
}

// ClaimLiquidationShare pays the distributor share of id to its owner once.
func (e *Engine) ClaimLiquidationShare(caller common.Address, id model.InstrumentID) (share *uint256.Int, err error) {
	started := time.Now()
	defer func() { e.observe("claim_liquidation_share", err, started) }()

	now := e.lock()
	defer e.unlock()

	if _, err = e.requireStage(now, model.StageDefaulted); err != nil {
		return nil, err
	}
	r := e.liquidation()
	if r == nil {
		return nil, model.ErrLiquidationPending
	}
	if r.Ledger[id] == 0 {
		return nil, fmt.Errorf("instrument %d not in distributor %d: %w", id, r.ID, model.ErrInvalidInput)
	}
	owner, err := e.authorize(caller, id)
	if err != nil {
		return nil, err
	}
	if r.Claimed[id] {
		return nil, fmt.Errorf("instrument %d share: %w", id, model.ErrAlreadyDone)
	}

	share = r.Share(id)
	if err = e.bank.Apply(bank.Op{
		Asset:  e.cfg.PaymentAsset,
		From:   r.Account,
		To:     owner,
		Amount: share,
	}); err != nil {
		return nil, fmt.Errorf("pay distributor share: %w", err)
	}
	e.markShareClaimed(now, r, id, owner, share)
	return safe.Clone(share), nil
}

func (e *Engine) markShareClaimed(now time.Time, r *LiquidationRecord, id model.InstrumentID, owner common.Address, share *uint256.Int) {
	r.Claimed[id] = true
	r.Paid.Add(r.Paid, share)

	e.queue(model.Event{
		Type:       model.EventLiquidationShareClaimed,
		Instrument: id,
		Account:    owner,
		Amount:     safe.Clone(share),
		Reference:  r.ID,
	}, now)
	e.logger.Info("liquidation share claimed",
		zap.Uint64("instrument", uint64(id)),
		zap.Uint64("distributor", r.ID),
		zap.String("share", share.Dec()),
	)
}

func (e *Engine) liquidation() *LiquidationRecord {
	if len(e.liquidations) == 0 {
		return nil
	}
	return e.liquidations[len(e.liquidations)-1]
}
