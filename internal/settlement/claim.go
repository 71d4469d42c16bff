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

// ClaimResult is what a claim paid out.
type ClaimResult struct {
	Owner  common.Address
	Reward *uint256.Int
	Share  *uint256.Int
}

// Claim pays the accrued reward of id and, after liquidation, its unclaimed
// distributor share. Each instrument claims once.
func (e *Engine) Claim(caller common.Address, id model.InstrumentID) (res ClaimResult, err error) {
	started := time.Now()
	defer func() { e.observe("claim", err, started) }()

	now := e.lock()
	defer e.unlock()

	stage, err := e.requireStage(now, model.StageMatured, model.StageDefaulted)
	if err != nil {
		return ClaimResult{}, err
	}
	if e.ledger[id] == 0 {
		return ClaimResult{}, fmt.Errorf("instrument %d: %w", id, model.ErrInvalidInput)
	}
	owner, err := e.authorize(caller, id)
	if err != nil {
		return ClaimResult{}, err
	}
	if e.claimed[id] {
		return ClaimResult{}, fmt.Errorf("instrument %d claim: %w", id, model.ErrAlreadyDone)
	}
	r := e.liquidation()
	if stage == model.StageDefaulted && r == nil {
		return ClaimResult{}, model.ErrLiquidationPending
	}
	if e.cfg.Profile.BurnOnClaim && e.registry != nil {
		if approved := e.registry.GetApproved(id); approved != (common.Address{}) {
			return ClaimResult{}, fmt.Errorf("instrument %d approved to %s: %w", id, approved.Hex(), model.ErrTransferPending)
		}
	}

	res = ClaimResult{Owner: owner, Reward: e.rewardBalance(id), Share: new(uint256.Int)}
	takeShare := r != nil && !r.Claimed[id] && r.Ledger[id] > 0
	if takeShare {
		res.Share = r.Share(id)
	}

	ops := []bank.Op{{Asset: e.cfg.RewardAsset, From: e.rewards, To: owner, Amount: res.Reward}}
	if takeShare {
		ops = append(ops, bank.Op{Asset: e.cfg.PaymentAsset, From: r.Account, To: owner, Amount: res.Share})
	}
	if err = e.bank.Apply(ops...); err != nil {
		return ClaimResult{}, fmt.Errorf("pay claim: %w", err)
	}

	e.claimed[id] = true
	e.totalClaimed.Add(e.totalClaimed, res.Reward)
	e.queue(model.Event{
		Type:         model.EventClaim,
		Instrument:   id,
		Account:      owner,
		Counterparty: caller,
		Amount:       safe.Clone(res.Reward),
		Reference:    e.ledger[id],
	}, now)
	if takeShare {
		e.markShareClaimed(now, r, id, owner, res.Share)
	}
	e.logger.Info("instrument claimed",
		zap.Uint64("instrument", uint64(id)),
		zap.String("owner", owner.Hex()),
		zap.String("reward", res.Reward.Dec()),
		zap.String("share", res.Share.Dec()),
	)
	return ClaimResult{Owner: owner, Reward: safe.Clone(res.Reward), Share: safe.Clone(res.Share)}, nil
}

// authorize resolves the owner of id and checks that caller is the owner or
// the registry acting for it.
func (e *Engine) authorize(caller common.Address, id model.InstrumentID) (common.Address, error) {
	var owner common.Address
	if e.registry != nil {
		o, err := e.registry.OwnerOf(id)
		if err != nil {
			return common.Address{}, fmt.Errorf("owner of %d: %w", id, err)
		}
		owner = o
	} else {
		o, ok := e.holders[id]
		if !ok {
			return common.Address{}, fmt.Errorf("instrument %d has no holder: %w", id, model.ErrInvalidInput)
		}
		owner = o
	}
	if caller != owner && (e.registry == nil || caller != e.registryAddr) {
		return common.Address{}, fmt.Errorf("%s may not act for instrument %d: %w", caller.Hex(), id, model.ErrAccessDenied)
	}
	return owner, nil
}
