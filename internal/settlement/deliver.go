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

// Delivery is the record of one delivered day.
type Delivery struct {
	// Day is the 1-based delivery index.
	Day uint64 `json:"day"`
	// OracleDay is the earnings round the delivery was priced against.
	OracleDay uint64       `json:"oracle_day"`
	Round     *uint256.Int `json:"-"`
	Sold      uint64       `json:"sold"`
	Amount    *uint256.Int `json:"-"`
	At        time.Time    `json:"at"`
}

func (d Delivery) clone() Delivery {
	d.Round = safe.Clone(d.Round)
	d.Amount = safe.Clone(d.Amount)
	return d
}

// Deliver pulls the proceeds of the next due day from the issuer into the
// rewards account. Anyone may trigger it; the amount is yesterday's
// earnings round times the sold hashrate.
func (e *Engine) Deliver(caller common.Address) (d Delivery, err error) {
	started := time.Now()
	defer func() { e.observe("deliver", err, started) }()

	now := e.lock()
	defer e.unlock()

	if _, err = e.requireStage(now, model.StageActiveObservation, model.StageActive); err != nil {
		return Delivery{}, err
	}
	delivered := uint64(len(e.deliveries))
	next := dueDay(e.cfg, delivered, now)
	if next == 0 {
		return Delivery{}, fmt.Errorf("day %d: %w", delivered+1, model.ErrDeliveryNotDue)
	}

	today := model.DayIndex(now)
	if today == 0 {
		return Delivery{}, fmt.Errorf("no earnings day before %d: %w", today, model.ErrRoundMissing)
	}
	oracleDay := today - 1
	round, ok := e.oracle.Round(oracleDay)
	if !ok || round.Value == nil {
		return Delivery{}, fmt.Errorf("oracle day %d: %w", oracleDay, model.ErrRoundMissing)
	}

	amount, err := safe.Mul(round.Value, uint256.NewInt(e.sold))
	if err != nil {
		return Delivery{}, fmt.Errorf("delivery amount: %w", model.ErrInvalidInput)
	}
	acc, accRemainder := e.acc, e.accRemainder
	if e.sold > 0 {
		increment, remainder, err := safe.MulDivRem(amount, accScale, uint256.NewInt(e.sold))
		if err != nil {
			return Delivery{}, fmt.Errorf("accrual increment: %w", model.ErrInvalidInput)
		}
		if acc, err = safe.Add(e.acc, increment); err != nil {
			return Delivery{}, fmt.Errorf("accrual: %w", model.ErrInvalidInput)
		}
		if accRemainder, err = safe.Add(e.accRemainder, remainder); err != nil {
			return Delivery{}, fmt.Errorf("accrual remainder: %w", model.ErrInvalidInput)
		}
	}
	totalDelivered, err := safe.Add(e.totalDelivered, amount)
	if err != nil {
		return Delivery{}, fmt.Errorf("total delivered: %w", model.ErrInvalidInput)
	}

	if !amount.IsZero() {
		if err = e.bank.Apply(bank.Op{
			Asset:   e.cfg.RewardAsset,
			Spender: e.address,
			From:    e.issuer,
			To:      e.rewards,
			Amount:  amount,
		}); err != nil {
			return Delivery{}, fmt.Errorf("pull proceeds from issuer %s: %w", e.issuer.Hex(), err)
		}
	}

	e.acc, e.accRemainder, e.totalDelivered = acc, accRemainder, totalDelivered
	d = Delivery{
		Day:       next,
		OracleDay: oracleDay,
		Round:     safe.Clone(round.Value),
		Sold:      e.sold,
		Amount:    amount,
		At:        now,
	}
	e.deliveries = append(e.deliveries, d)

	e.queue(model.Event{
		Type:      model.EventDeliver,
		Day:       next,
		Account:   caller,
		Amount:    safe.Clone(amount),
		Reference: oracleDay,
	}, now)
	e.logger.Info("day delivered",
		zap.Uint64("day", next),
		zap.Uint64("oracle_day", oracleDay),
		zap.String("round", round.Value.Dec()),
		zap.String("amount", amount.Dec()),
	)
	return d.clone(), nil
}

// rewardBalance is the unclaimed accrual of id in reward-asset units.
func (e *Engine) rewardBalance(id model.InstrumentID) *uint256.Int {
	units, ok := e.ledger[id]
	if !ok || e.claimed[id] {
		return new(uint256.Int)
	}
	gross := new(uint256.Int).Mul(e.acc, uint256.NewInt(units))
	gross.Sub(gross, e.debt[id])
	return gross.Div(gross, accScale)
}

// rewardDust is the part of the rewards account no instrument can claim.
func (e *Engine) rewardDust() *uint256.Int {
	owed := new(uint256.Int)
	for id := range e.ledger {
		owed.Add(owed, e.rewardBalance(id))
	}
	dust, err := safe.Sub(e.totalDelivered, e.totalClaimed)
	if err == nil {
		dust, err = safe.Sub(dust, e.rewardSwept)
	}
	if err == nil {
		dust, err = safe.Sub(dust, owed)
	}
	if err != nil {
		e.logger.Error("reward accounts exceed deliveries", zap.Error(err))
		return new(uint256.Int)
	}
	return dust
}
