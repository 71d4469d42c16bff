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

// Bind binds amount units of hashrate to id for the caller, who pays
// amount·Price(). It is only available while no instrument registry is set;
// the first bind makes the caller the holder of id.
func (e *Engine) Bind(caller common.Address, id model.InstrumentID, amount uint64) (err error) {
	started := time.Now()
	defer func() { e.observe("bind", err, started) }()

	now := e.lock()
	defer e.unlock()

	if e.registry != nil {
		return fmt.Errorf("bind outside registry %s: %w", e.registryAddr.Hex(), model.ErrAccessDenied)
	}
	if holder, ok := e.holders[id]; ok && holder != caller {
		return fmt.Errorf("instrument %d held by %s: %w", id, holder.Hex(), model.ErrAccessDenied)
	}
	if err = e.bind(now, id, amount, caller); err != nil {
		return err
	}
	e.holders[id] = caller
	return nil
}

// PayForMint binds hashrate to a freshly issued instrument. Only the
// instrument registry may call it; payer funds the purchase.
func (e *Engine) PayForMint(caller common.Address, id model.InstrumentID, amount uint64, payer common.Address) (err error) {
	started := time.Now()
	defer func() { e.observe("pay_for_mint", err, started) }()

	now := e.lock()
	defer e.unlock()

	if e.registry == nil || caller != e.registryAddr {
		return fmt.Errorf("pay for mint by %s: %w", caller.Hex(), model.ErrAccessDenied)
	}
	return e.bind(now, id, amount, payer)
}

func (e *Engine) bind(now time.Time, id model.InstrumentID, amount uint64, payer common.Address) error {
	if !e.mintAllowed(now) {
		return fmt.Errorf("bind in stage %s: %w", e.stage(now), model.ErrStageMismatch)
	}
	if amount == 0 || payer == (common.Address{}) {
		return fmt.Errorf("bind %d units for %s: %w", amount, payer.Hex(), model.ErrInvalidInput)
	}
	if amount > e.cfg.Supply-e.sold {
		return fmt.Errorf("bind %d units with %d left: %w", amount, e.cfg.Supply-e.sold, model.ErrInsufficientCapacity)
	}

	units := uint256.NewInt(amount)
	base, tax, option := e.cfg.unitCosts()
	legs := make([]bank.Op, 0, 3)
	for _, leg := range []struct {
		to   common.Address
		unit *uint256.Int
	}{
		{to: e.escrow, unit: base},
		{to: e.taxAccount, unit: tax},
		{to: e.optionAccount, unit: option},
	} {
		total, err := safe.Mul(leg.unit, units)
		if err != nil {
			return fmt.Errorf("bind cost: %w", model.ErrInvalidInput)
		}
		legs = append(legs, bank.Op{
			Asset:   e.cfg.PaymentAsset,
			Spender: e.address,
			From:    payer,
			To:      leg.to,
			Amount:  total,
		})
	}
	debt, err := safe.Mul(e.acc, units)
	if err != nil {
		return fmt.Errorf("bind accrual debt: %w", model.ErrInvalidInput)
	}

	if err := e.bank.Apply(legs...); err != nil {
		return fmt.Errorf("bind payment from %s: %w", payer.Hex(), err)
	}

	e.sold += amount
	e.ledger[id] += amount
	if prev, ok := e.debt[id]; ok {
		debt.Add(debt, prev)
	}
	e.debt[id] = debt

	cost := new(uint256.Int).Add(legs[0].Amount, legs[1].Amount)
	cost.Add(cost, legs[2].Amount)
	e.queue(model.Event{
		Type:       model.EventBind,
		Instrument: id,
		Account:    payer,
		Amount:     cost,
		Reference:  amount,
	}, now)
	e.logger.Info("hashrate bound",
		zap.Uint64("instrument", uint64(id)),
		zap.Uint64("amount", amount),
		zap.String("cost", cost.Dec()),
		zap.Uint64("sold", e.sold),
	)
	return nil
}

func (e *Engine) mintAllowed(now time.Time) bool {
	switch e.stage(now) {
	case model.StageActiveCollection:
		return true
	case model.StageActiveObservation:
		return e.cfg.Profile.MintDuringObservation
	default:
		return false
	}
}
