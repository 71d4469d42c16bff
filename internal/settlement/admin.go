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

// DustSweep reports what SweepDust moved.
type DustSweep struct {
	Reward      *uint256.Int
	Distributor *uint256.Int
}

// SetIssuer replaces the issuer that delivers proceeds and receives the
// initial payment.
func (e *Engine) SetIssuer(caller, issuer common.Address) (err error) {
	started := time.Now()
	defer func() { e.observe("set_issuer", err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return err
	}
	if issuer == (common.Address{}) {
		return fmt.Errorf("issuer: %w", model.ErrInvalidInput)
	}
	if issuer == e.issuer {
		return fmt.Errorf("issuer %s: %w", issuer.Hex(), model.ErrAlreadyDone)
	}

	previous := e.issuer
	e.issuer = issuer
	e.queue(model.Event{
		Type:         model.EventIssuerChanged,
		Account:      previous,
		Counterparty: issuer,
	}, now)
	e.logger.Info("issuer changed", zap.String("previous", previous.Hex()), zap.String("issuer", issuer.Hex()))
	return nil
}

// SetInstrumentRegistry attaches the registry that issues instruments. It
// can be set once and only before any hashrate is bound.
func (e *Engine) SetInstrumentRegistry(caller, registry common.Address, instruments Instruments) (err error) {
	started := time.Now()
	defer func() { e.observe("set_instrument_registry", err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return err
	}
	if registry == (common.Address{}) || instruments == nil {
		return fmt.Errorf("registry: %w", model.ErrInvalidInput)
	}
	if e.registry != nil {
		return fmt.Errorf("registry %s: %w", e.registryAddr.Hex(), model.ErrAlreadyDone)
	}
	if e.sold > 0 {
		return fmt.Errorf("registry after %d units bound: %w", e.sold, model.ErrStageMismatch)
	}

	e.registry, e.registryAddr = instruments, registry
	e.queue(model.Event{
		Type:         model.EventRegistryChanged,
		Account:      caller,
		Counterparty: registry,
	}, now)
	e.logger.Info("instrument registry set", zap.String("registry", registry.Hex()))
	return nil
}

// ClaimTax sends the whole tax balance to to.
func (e *Engine) ClaimTax(caller, to common.Address) (*uint256.Int, error) {
	return e.claimPremium("claim_tax", model.EventTaxClaimed, e.taxAccount, caller, to)
}

// ClaimOption sends the whole option premium balance to to.
func (e *Engine) ClaimOption(caller, to common.Address) (*uint256.Int, error) {
	return e.claimPremium("claim_option", model.EventOptionClaimed, e.optionAccount, caller, to)
}

func (e *Engine) claimPremium(operation string, t model.EventType, account, caller, to common.Address) (amount *uint256.Int, err error) {
	started := time.Now()
	defer func() { e.observe(operation, err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return nil, err
	}
	if to == (common.Address{}) {
		return nil, fmt.Errorf("recipient: %w", model.ErrInvalidInput)
	}
	amount = e.bank.Balance(e.cfg.PaymentAsset, account)
	if amount.IsZero() {
		return nil, fmt.Errorf("%s balance is empty: %w", operation, model.ErrInsufficientFunds)
	}
	if err = e.bank.Apply(bank.Op{Asset: e.cfg.PaymentAsset, From: account, To: to, Amount: amount}); err != nil {
		return nil, fmt.Errorf("%s transfer: %w", operation, err)
	}

	e.queue(model.Event{Type: t, Account: caller, Counterparty: to, Amount: safe.Clone(amount)}, now)
	e.logger.Info("premium claimed", zap.String("operation", operation), zap.String("amount", amount.Dec()))
	return amount, nil
}

// Withdraw releases the remaining escrow of a matured contract to the
// issuer after the initial payment was claimed.
func (e *Engine) Withdraw(caller common.Address) (amount *uint256.Int, err error) {
	started := time.Now()
	defer func() { e.observe("withdraw", err, started) }()

	now := e.lock()
	defer e.unlock()

	if caller != e.issuer {
		return nil, fmt.Errorf("%s is not issuer: %w", caller.Hex(), model.ErrAccessDenied)
	}
	if _, err = e.requireStage(now, model.StageMatured); err != nil {
		return nil, err
	}
	if e.initial == nil || !e.initial.Claimed {
		return nil, fmt.Errorf("initial payment not claimed: %w", model.ErrStageMismatch)
	}
	if e.withdrawn {
		return nil, fmt.Errorf("escrow: %w", model.ErrAlreadyDone)
	}
	amount = e.bank.Balance(e.cfg.PaymentAsset, e.escrow)
	if amount.IsZero() {
		return nil, fmt.Errorf("escrow is empty: %w", model.ErrInsufficientFunds)
	}
	if err = e.bank.Apply(bank.Op{Asset: e.cfg.PaymentAsset, From: e.escrow, To: e.issuer, Amount: amount}); err != nil {
		return nil, fmt.Errorf("withdraw escrow: %w", err)
	}
	e.withdrawn = true

	e.queue(model.Event{Type: model.EventWithdraw, Account: e.issuer, Amount: safe.Clone(amount)}, now)
	e.logger.Info("escrow withdrawn", zap.String("issuer", e.issuer.Hex()), zap.String("amount", amount.Dec()))
	return amount, nil
}

// SweepDust moves the unclaimable rounding remainders of a terminal
// contract to to. Amounts still owed to instruments are never touched.
func (e *Engine) SweepDust(caller, to common.Address) (sweep DustSweep, err error) {
	started := time.Now()
	defer func() { e.observe("sweep_dust", err, started) }()

	now := e.lock()
	defer e.unlock()

	if err = e.requireAdmin(caller); err != nil {
		return DustSweep{}, err
	}
	if to == (common.Address{}) {
		return DustSweep{}, fmt.Errorf("recipient: %w", model.ErrInvalidInput)
	}
	if _, err = e.requireStage(now, model.StageMatured, model.StageDefaulted); err != nil {
		return DustSweep{}, err
	}

	sweep = DustSweep{Reward: e.rewardDust(), Distributor: new(uint256.Int)}
	ops := []bank.Op{{Asset: e.cfg.RewardAsset, From: e.rewards, To: to, Amount: sweep.Reward}}
	r := e.liquidation()
	if r != nil {
		sweep.Distributor = r.Dust()
		ops = append(ops, bank.Op{Asset: e.cfg.PaymentAsset, From: r.Account, To: to, Amount: sweep.Distributor})
	}
	if sweep.Reward.IsZero() && sweep.Distributor.IsZero() {
		return DustSweep{}, fmt.Errorf("no dust: %w", model.ErrInsufficientFunds)
	}
	if err = e.bank.Apply(ops...); err != nil {
		return DustSweep{}, fmt.Errorf("sweep dust: %w", err)
	}

	e.rewardSwept.Add(e.rewardSwept, sweep.Reward)
	if !sweep.Reward.IsZero() {
		e.queue(model.Event{Type: model.EventDustSwept, Account: caller, Counterparty: to, Amount: safe.Clone(sweep.Reward)}, now)
	}
	if r != nil && !sweep.Distributor.IsZero() {
		r.Swept.Add(r.Swept, sweep.Distributor)
		e.queue(model.Event{
			Type:         model.EventDustSwept,
			Account:      caller,
			Counterparty: to,
			Amount:       safe.Clone(sweep.Distributor),
			Reference:    r.ID,
		}, now)
	}
	e.logger.Info("dust swept",
		zap.String("reward", sweep.Reward.Dec()),
		zap.String("distributor", sweep.Distributor.Dec()),
	)
	return DustSweep{Reward: safe.Clone(sweep.Reward), Distributor: safe.Clone(sweep.Distributor)}, nil
}
