package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a ledger transaction.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

// Transaction is a single immutable ledger entry for a wallet. Amount is a
// signed minor-unit value: positive for deposits, negative for withdrawals.
// Unconfirmed transactions do not count toward the wallet balance.
type Transaction struct {
	ID        string
	WalletID  string
	Type      TransactionType
	Amount    decimal.Decimal
	Confirmed bool
	Meta      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that the amount is non-zero and its sign matches the type.
func (t *Transaction) Validate() error {
	if t.Amount.IsZero() {
		return ErrAmountInvalid
	}

	switch t.Type {
	case TransactionTypeDeposit:
		if t.Amount.IsNegative() {
			return ErrAmountInvalid
		}
	case TransactionTypeWithdraw:
		if t.Amount.IsPositive() {
			return ErrAmountInvalid
		}
	default:
		return ErrAmountInvalid
	}

	return nil
}

// Normalize forces the amount sign to match the transaction type. Used when
// a caller edits a past entry with a positive magnitude.
func (t *Transaction) Normalize() {
	if t.Type == TransactionTypeWithdraw {
		t.Amount = t.Amount.Abs().Neg()
		return
	}
	t.Amount = t.Amount.Abs()
}
