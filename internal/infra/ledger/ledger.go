// Package ledger is an in-process multi-asset balance book. It backs the pool's
// asset transfers when no external settlement layer is wired in.
package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

// Ledger tracks balances per asset and account. Every movement is atomic.
type Ledger struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[common.Address]map[common.Address]*big.Int)}
}

// Mint credits amount of asset to an account.
func (l *Ledger) Mint(asset, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.Wrap(apperrors.ErrInvalidInput, "mint amount must be non-negative")
	}
	if to == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidRecipient, "mint to zero address")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.set(asset, to, new(big.Int).Add(l.get(asset, to), amount))
	return nil
}

// Move transfers amount of asset between two accounts. On failure nothing moves.
func (l *Ledger) Move(ctx context.Context, asset, from, to common.Address, amount *big.Int) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ledger move")
	}
	if amount == nil || amount.Sign() < 0 {
		return errors.Wrap(apperrors.ErrInvalidInput, "transfer amount must be non-negative")
	}
	if to == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidRecipient, "transfer to zero address")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	have := l.get(asset, from)
	if have.Cmp(amount) < 0 {
		return errors.Wrapf(apperrors.ErrInsufficientBalance,
			"%s holds %s of %s, needs %s", from.Hex(), have, asset.Hex(), amount)
	}
	if from == to {
		return nil
	}
	l.set(asset, from, new(big.Int).Sub(have, amount))
	l.set(asset, to, new(big.Int).Add(l.get(asset, to), amount))
	return nil
}

// BalanceOf returns the balance of account in asset.
func (l *Ledger) BalanceOf(asset, account common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.get(asset, account))
}

// Balances returns the balances of holder for each asset, in order.
func (l *Ledger) Balances(ctx context.Context, holder common.Address, assets ...common.Address) ([]*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "ledger balances")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*big.Int, len(assets))
	for i, a := range assets {
		out[i] = new(big.Int).Set(l.get(a, holder))
	}
	return out, nil
}

// Custodian returns a transfer handle that pays out of account.
func (l *Ledger) Custodian(account common.Address) *Custodian {
	return &Custodian{ledger: l, account: account}
}

func (l *Ledger) get(asset, account common.Address) *big.Int {
	if b, ok := l.balances[asset][account]; ok {
		return b
	}
	return new(big.Int)
}

func (l *Ledger) set(asset, account common.Address, v *big.Int) {
	accounts, ok := l.balances[asset]
	if !ok {
		accounts = make(map[common.Address]*big.Int)
		l.balances[asset] = accounts
	}
	if v.Sign() == 0 {
		delete(accounts, account)
		return
	}
	accounts[account] = v
}

// Custodian moves assets for a single custody account, such as a pool.
type Custodian struct {
	ledger  *Ledger
	account common.Address
}

// TransferFrom moves amount of asset from one account to another.
func (c *Custodian) TransferFrom(ctx context.Context, asset, from, to common.Address, amount *big.Int) error {
	return c.ledger.Move(ctx, asset, from, to, amount)
}

// Transfer pays amount of asset from the custody account to `to`.
func (c *Custodian) Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error {
	return c.ledger.Move(ctx, asset, c.account, to, amount)
}
