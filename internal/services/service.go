package services

import (
	"context"
	"errors"
)

// TxRunner executes a function inside one atomic transaction against the
// backing store. pkg/mongodb.Client satisfies this; tests substitute a
// pass-through.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Business-rule errors. All validation runs before any mutating step, so when
// one of these is returned no partial state has been written.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRewardNotFound  = errors.New("reward not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	ErrInsufficientPoints    = errors.New("insufficient points")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidRewardCost     = errors.New("reward has an invalid cost")

	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherUsed     = errors.New("voucher already used")
	ErrVoucherExpired  = errors.New("voucher expired")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
