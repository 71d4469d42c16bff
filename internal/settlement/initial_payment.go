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

// InitialPayment is the early release of escrow to the issuer.
type InitialPayment struct {
	Ratio       uint64       `json:"ratio"`
	Clamped     bool         `json:"clamped"`
	Inputs      RatioInputs  `json:"inputs"`
	Price       *uint256.Int `json:"-"`
	Amount      *uint256.Int `json:"-"`
	Claimed     bool         `json:"claimed"`
	GeneratedAt time.Time    `json:"generated_at"`
}

func (p InitialPayment) clone() InitialPayment {
	p.Price = safe.Clone(p.Price)
	p.Amount = safe.Clone(p.Amount)
	return p
}

// GenerateInitialPayment fixes the initial payment once observation has
// started. The fixed-ratio profile ignores in.
func (e *Engine) GenerateInitialPayment(caller common.Address, in RatioInputs) (p InitialPayment, err error) {
	started := time.Now()
	defer func() { e.observe("generate_initial_payment", err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return InitialPayment{}, err
	}
	if _, err = e.requireStage(now, model.StageActiveObservation, model.StageActive); err != nil {
		return InitialPayment{}, err
	}
	if e.initial != nil {
		return InitialPayment{}, fmt.Errorf("initial payment generated at %s: %w", e.initial.GeneratedAt, model.ErrAlreadyDone)
	}
	if err = e.generateInitialPayment(now, caller, in); err != nil {
		return InitialPayment{}, err
	}
	return e.initial.clone(), nil
}

// ClaimInitialPayment transfers the initial payment to the issuer once. The
// fixed-ratio profile generates it on first claim.
func (e *Engine) ClaimInitialPayment(caller common.Address) (amount *uint256.Int, err error) {
	started := time.Now()
	defer func() { e.observe("claim_initial_payment", err, started) }()

	now := e.lock()
	defer e.unlock()

	if caller != e.issuer {
		return nil, fmt.Errorf("%s is not issuer: %w", caller.Hex(), model.ErrAccessDenied)
	}
	if _, err = e.requireStage(now, model.StageActiveObservation, model.StageActive, model.StageMatured); err != nil {
		return nil, err
	}
	generated := false
	if e.initial == nil {
		if !e.cfg.FixedRatio() {
			return nil, fmt.Errorf("initial payment not generated: %w", model.ErrStageMismatch)
		}
		if err = e.generateInitialPayment(now, caller, RatioInputs{}); err != nil {
			return nil, err
		}
		generated = true
	}
	if e.initial.Claimed {
		return nil, fmt.Errorf("initial payment: %w", model.ErrAlreadyDone)
	}

	if err = e.bank.Apply(bank.Op{
		Asset:  e.cfg.PaymentAsset,
		From:   e.escrow,
		To:     e.issuer,
		Amount: e.initial.Amount,
	}); err != nil {
		if generated {
			e.initial = nil
			e.pending = e.pending[:len(e.pending)-1]
			e.seq--
		}
		return nil, fmt.Errorf("release initial payment: %w", err)
	}
	e.initial.Claimed = true

	e.queue(model.Event{
		Type:    model.EventInitialPaymentClaimed,
		Account: e.issuer,
		Amount:  safe.Clone(e.initial.Amount),
		Ratio:   e.initial.Ratio,
	}, now)
	e.logger.Info("initial payment claimed",
		zap.String("issuer", e.issuer.Hex()),
		zap.String("amount", e.initial.Amount.Dec()),
	)
	return safe.Clone(e.initial.Amount), nil
}

func (e *Engine) generateInitialPayment(now time.Time, caller common.Address, in RatioInputs) error {
	p := InitialPayment{GeneratedAt: now}
	if e.cfg.FixedRatio() {
		p.Ratio = e.cfg.InitialPaymentRatio
	} else {
		price, err := e.price.CurrentPrice()
		if err != nil {
			return fmt.Errorf("current price: %w", err)
		}
		ratio, clamped, err := DynamicRatio(in, price)
		if err != nil {
			return err
		}
		p.Ratio, p.Clamped, p.Inputs, p.Price = ratio, clamped, in, safe.Clone(price)
	}

	amount, err := safe.ApplyBPS(e.bank.Balance(e.cfg.PaymentAsset, e.escrow), p.Ratio)
	if err != nil {
		return fmt.Errorf("initial payment amount: %w", model.ErrInvalidInput)
	}
	p.Amount = amount
	e.initial = &p

	e.queue(model.Event{
		Type:    model.EventInitialPaymentGenerated,
		Account: caller,
		Amount:  safe.Clone(amount),
		Ratio:   p.Ratio,
		Clamped: p.Clamped,
	}, now)
	e.logger.Info("initial payment generated",
		zap.Uint64("ratio", p.Ratio),
		zap.Bool("clamped", p.Clamped),
		zap.String("amount", amount.Dec()),
	)
	return nil
}
