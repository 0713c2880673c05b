package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrExpired is returned when the caller-supplied deadline has passed.
	ErrExpired = errors.New("expired")

	// ErrInvalidRecipient is returned when the recipient account is the zero address.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidPair is returned when asset identifiers do not match the pool pair.
	ErrInvalidPair = errors.New("invalid pair")

	// ErrInvalidPathLength is returned when a swap path does not have exactly two elements.
	ErrInvalidPathLength = errors.New("invalid path length")

	// ErrInsufficientLiquidityMinted is returned when a deposit rounds down to zero shares.
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")

	// ErrInsufficientShares is returned when a withdrawal exceeds the caller's share balance.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrSlippageExceeded is returned when an accepted or owed amount is below
	// the caller's minimum.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrInsufficientOutputAmount is returned when a swap output is below amountOutMin.
	ErrInsufficientOutputAmount = errors.New("insufficient output amount")

	// ErrNoLiquidity is returned when the pool has zero reserves.
	ErrNoLiquidity = errors.New("no liquidity")

	// ErrInvalidInput is returned for zero or negative amounts and reserves.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration is returned when a pool is built with an unusable pair.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTransferFailed is returned when the asset-transfer collaborator reports a failure.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrReentrantCall is returned when a collaborator re-enters a pool
	// transaction that is still in progress.
	ErrReentrantCall = errors.New("reentrant call")

	// ErrInsufficientBalance is returned by the ledger when the source account
	// cannot cover a transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
