// Package bank keeps per-asset balances and allowances for every account the
// settlement engine touches, including its own custody accounts.
package bank

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/holiman/uint256"
)

const modulePrefix = "hashyield/module/"

// ModuleAddress derives the account address of an internal module such as an
// escrow or a liquidation distributor.
func ModuleAddress(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(modulePrefix + name)))
}

// Op is a single transfer leg. A non-zero Spender different from From
// spends From's allowance granted to Spender.
type Op struct {
	Asset   model.Asset
	Spender common.Address
	From    common.Address
	To      common.Address
	Amount  *uint256.Int
}

type holding struct {
	asset model.Asset
	owner common.Address
}

type grant struct {
	asset   model.Asset
	owner   common.Address
	spender common.Address
}

// Ledger is an in-process multi-asset token ledger. It is safe for
// concurrent use.
type Ledger struct {
	mu         sync.Mutex
	balances   map[holding]*uint256.Int
	allowances map[grant]*uint256.Int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[holding]*uint256.Int),
		allowances: make(map[grant]*uint256.Int),
	}
}

// Credit mints amount of asset to the account.
func (l *Ledger) Credit(asset model.Asset, to common.Address, amount *uint256.Int) error {
	if asset == "" || to == (common.Address{}) || amount == nil {
		return fmt.Errorf("credit: %w", model.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := holding{asset: asset, owner: to}
	sum, overflow := new(uint256.Int).AddOverflow(l.balance(key), amount)
	if overflow {
		return fmt.Errorf("credit %s: %w", asset, model.ErrInvalidInput)
	}
	l.balances[key] = sum
	return nil
}

// Balance returns a copy of the account balance.
func (l *Ledger) Balance(asset model.Asset, owner common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(l.balance(holding{asset: asset, owner: owner}))
}

// Approve sets the amount spender may move out of owner's balance.
func (l *Ledger) Approve(asset model.Asset, owner, spender common.Address, amount *uint256.Int) error {
	if asset == "" || owner == (common.Address{}) || spender == (common.Address{}) || amount == nil {
		return fmt.Errorf("approve: %w", model.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[grant{asset: asset, owner: owner, spender: spender}] = new(uint256.Int).Set(amount)
	return nil
}

// Allowance returns a copy of the remaining allowance.
func (l *Ledger) Allowance(asset model.Asset, owner, spender common.Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(l.allowance(grant{asset: asset, owner: owner, spender: spender}))
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(asset model.Asset, from, to common.Address, amount *uint256.Int) error {
	return l.Apply(Op{Asset: asset, From: from, To: to, Amount: amount})
}

// TransferFrom moves amount on behalf of from, consuming spender's allowance.
func (l *Ledger) TransferFrom(asset model.Asset, spender, from, to common.Address, amount *uint256.Int) error {
	return l.Apply(Op{Asset: asset, Spender: spender, From: from, To: to, Amount: amount})
}

// Apply executes every op or none of them. Balances and allowances are
// checked against the cumulative debits of the whole batch first.
func (l *Ledger) Apply(ops ...Op) error {
	for i, op := range ops {
		if op.Asset == "" || op.From == (common.Address{}) || op.To == (common.Address{}) || op.Amount == nil {
			return fmt.Errorf("op %d: %w", i, model.ErrInvalidInput)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	debits := make(map[holding]*uint256.Int)
	spends := make(map[grant]*uint256.Int)
	for i, op := range ops {
		if op.Amount.IsZero() {
			continue
		}
		from := holding{asset: op.Asset, owner: op.From}
		if err := accumulate(debits, from, op.Amount, l.balance(from)); err != nil {
			return fmt.Errorf("op %d: balance of %s %s: %w", i, op.From.Hex(), op.Asset, err)
		}
		if op.Spender != (common.Address{}) && op.Spender != op.From {
			g := grant{asset: op.Asset, owner: op.From, spender: op.Spender}
			if err := accumulate(spends, g, op.Amount, l.allowance(g)); err != nil {
				return fmt.Errorf("op %d: allowance of %s for %s: %w", i, op.From.Hex(), op.Spender.Hex(), err)
			}
		}
	}

	for _, op := range ops {
		if op.Amount.IsZero() {
			continue
		}
		from := holding{asset: op.Asset, owner: op.From}
		to := holding{asset: op.Asset, owner: op.To}
		l.balances[from] = new(uint256.Int).Sub(l.balance(from), op.Amount)
		l.balances[to] = new(uint256.Int).Add(l.balance(to), op.Amount)
	}
	for g, spent := range spends {
		l.allowances[g] = new(uint256.Int).Sub(l.allowance(g), spent)
	}
	return nil
}

func accumulate[K comparable](sums map[K]*uint256.Int, key K, amount, available *uint256.Int) error {
	total, ok := sums[key]
	if !ok {
		total = new(uint256.Int)
	}
	next, overflow := new(uint256.Int).AddOverflow(total, amount)
	if overflow || next.Gt(available) {
		return model.ErrInsufficientFunds
	}
	sums[key] = next
	return nil
}

func (l *Ledger) balance(key holding) *uint256.Int {
	if v, ok := l.balances[key]; ok {
		return v
	}
	return new(uint256.Int)
}

func (l *Ledger) allowance(key grant) *uint256.Int {
	if v, ok := l.allowances[key]; ok {
		return v
	}
	return new(uint256.Int)
}
