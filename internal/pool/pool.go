// Package pool implements the accounting engine of a two-asset constant
// product market maker: reserves, the liquidity share ledger, and the deposit,
// withdraw and swap transitions over them.
package pool

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

//go:generate mockgen -source=pool.go -destination=mock/pool.go -package=mock

// Transferer moves assets between accounts on behalf of the pool.
// Both calls must be atomic and must not move anything when they fail.
type Transferer interface {
	// TransferFrom moves amount of asset from one account to another.
	TransferFrom(ctx context.Context, asset, from, to common.Address, amount *big.Int) error
	// Transfer moves amount of asset out of the pool account to an account.
	Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error
}

// Option configures a Pool.
type Option func(*Pool)

// WithClock overrides the time source used for deadline checks.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		p.now = now
	}
}

// WithRecorder sets the consumer of pool records.
func WithRecorder(r Recorder) Option {
	return func(p *Pool) {
		p.recorder = r
	}
}

// Pool holds the reserves of exactly two assets and the shares issued against them.
// It is safe for concurrent use; mutating operations are fully serialised.
type Pool struct {
	tokenX     common.Address
	tokenY     common.Address
	account    common.Address
	transferer Transferer
	recorder   Recorder
	now        func() time.Time

	mu          sync.RWMutex
	reserveX    *big.Int
	reserveY    *big.Int
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
}

// New creates an empty pool for the pair (tokenX, tokenY). account is the
// address that holds the pool's custody on the asset ledger.
func New(tokenX, tokenY, account common.Address, transferer Transferer, opts ...Option) (*Pool, error) {
	var zero common.Address
	if tokenX == tokenY {
		return nil, errors.Wrap(apperrors.ErrInvalidConfiguration, "identical assets")
	}
	if tokenX == zero || tokenY == zero {
		return nil, errors.Wrap(apperrors.ErrInvalidConfiguration, "asset cannot be the zero address")
	}
	if account == zero {
		return nil, errors.Wrap(apperrors.ErrInvalidConfiguration, "pool account cannot be the zero address")
	}
	if transferer == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidConfiguration, "transferer is nil")
	}

	p := &Pool{
		tokenX:      tokenX,
		tokenY:      tokenY,
		account:     account,
		transferer:  transferer,
		recorder:    NopRecorder{},
		now:         time.Now,
		reserveX:    new(big.Int),
		reserveY:    new(big.Int),
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Tokens returns the configured pair in internal order.
func (p *Pool) Tokens() (common.Address, common.Address) {
	return p.tokenX, p.tokenY
}

// Account returns the custody account of the pool.
func (p *Pool) Account() common.Address {
	return p.account
}

// Reserves returns copies of the current reserves in internal order.
func (p *Pool) Reserves(ctx context.Context) (*big.Int, *big.Int) {
	defer p.rlock(ctx)()
	return new(big.Int).Set(p.reserveX), new(big.Int).Set(p.reserveY)
}

// TotalSupply returns the number of outstanding shares.
func (p *Pool) TotalSupply(ctx context.Context) *big.Int {
	defer p.rlock(ctx)()
	return new(big.Int).Set(p.totalSupply)
}

// BalanceOf returns the shares held by account.
func (p *Pool) BalanceOf(ctx context.Context, account common.Address) *big.Int {
	defer p.rlock(ctx)()
	return new(big.Int).Set(p.balanceOf(account))
}

type txKey struct{}

// begin acquires exclusive access for a state transition and returns the
// context that marks it. A context that already carries this pool's mark
// comes from a collaborator calling back into the pool mid-transition.
func (p *Pool) begin(ctx context.Context) (context.Context, error) {
	if p.inTx(ctx) {
		return nil, errors.Wrap(apperrors.ErrReentrantCall, "pool transaction in progress")
	}
	p.mu.Lock()
	return context.WithValue(ctx, txKey{}, p), nil
}

func (p *Pool) end() {
	p.mu.Unlock()
}

func (p *Pool) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Pool)
	return owner == p
}

// rlock takes a read lock unless ctx belongs to a transition of this pool,
// which already holds the write lock.
func (p *Pool) rlock(ctx context.Context) func() {
	if p.inTx(ctx) {
		return func() {}
	}
	p.mu.RLock()
	return p.mu.RUnlock
}

// orient resolves a caller-supplied pair against the pool pair. flipped is
// true when a is the pool's Y asset.
func (p *Pool) orient(a, b common.Address) (flipped bool, err error) {
	switch {
	case a == p.tokenX && b == p.tokenY:
		return false, nil
	case a == p.tokenY && b == p.tokenX:
		return true, nil
	default:
		return false, errors.Wrapf(apperrors.ErrInvalidPair, "%s/%s", a.Hex(), b.Hex())
	}
}

func (p *Pool) checkCommon(deadline int64, to common.Address) error {
	if now := p.now().Unix(); now > deadline {
		return errors.Wrapf(apperrors.ErrExpired, "deadline %d, now %d", deadline, now)
	}
	if to == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidRecipient, "recipient is the zero address")
	}
	return nil
}

func (p *Pool) balanceOf(account common.Address) *big.Int {
	if b, ok := p.balances[account]; ok {
		return b
	}
	return new(big.Int)
}

func (p *Pool) mint(to common.Address, amount *big.Int) {
	p.balances[to] = new(big.Int).Add(p.balanceOf(to), amount)
	p.totalSupply = new(big.Int).Add(p.totalSupply, amount)
}

func (p *Pool) burn(from common.Address, amount *big.Int) {
	left := new(big.Int).Sub(p.balanceOf(from), amount)
	if left.Sign() == 0 {
		delete(p.balances, from)
	} else {
		p.balances[from] = left
	}
	p.totalSupply = new(big.Int).Sub(p.totalSupply, amount)
}

// snapshot captures the fields a transition may touch. Values are replaced,
// never mutated in place, so holding the pointers is enough.
type snapshot struct {
	reserveX    *big.Int
	reserveY    *big.Int
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
}

func (p *Pool) snapshot(accounts ...common.Address) snapshot {
	s := snapshot{
		reserveX:    p.reserveX,
		reserveY:    p.reserveY,
		totalSupply: p.totalSupply,
		balances:    make(map[common.Address]*big.Int, len(accounts)),
	}
	for _, a := range accounts {
		s.balances[a] = p.balances[a]
	}
	return s
}

func (p *Pool) restore(s snapshot) {
	p.reserveX = s.reserveX
	p.reserveY = s.reserveY
	p.totalSupply = s.totalSupply
	for a, b := range s.balances {
		if b == nil {
			delete(p.balances, a)
			continue
		}
		p.balances[a] = b
	}
}

func (p *Pool) sync(ctx context.Context) {
	p.recorder.Synced(ctx, Sync{
		ReserveX:    new(big.Int).Set(p.reserveX),
		ReserveY:    new(big.Int).Set(p.reserveY),
		TotalSupply: new(big.Int).Set(p.totalSupply),
	})
}

// pair orders an (X, Y) couple for a request with the given orientation.
// It maps internal order to caller order and back.
func pair[T any](x, y T, flipped bool) (T, T) {
	if flipped {
		return y, x
	}
	return x, y
}

func checkAmount(name string, v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return errors.Wrapf(apperrors.ErrInvalidInput, "%s must be a non-negative amount", name)
	}
	return nil
}
