package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents a single-holder balance account. Balance is stored in
// minor units: an integer-valued decimal scaled by 10^DecimalPlaces.
type Wallet struct {
	ID            string
	HolderRef     string
	Balance       decimal.Decimal
	DecimalPlaces int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanWithdraw reports whether amount (in minor units) can be withdrawn
// without driving the balance negative.
func (w *Wallet) CanWithdraw(amount decimal.Decimal) bool {
	return w.Balance.Cmp(amount) >= 0
}

// ValidateWithdraw checks if the wallet can be debited by amount.
func (w *Wallet) ValidateWithdraw(amount decimal.Decimal) error {
	if !w.CanWithdraw(amount) {
		return ErrBalanceIsEmpty
	}
	return nil
}

// Apply returns the new balance after applying a signed minor-unit amount.
func (w *Wallet) Apply(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}
