package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer. Terminal states are
// never reopened; a retry creates a new transfer.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusProcessed TransferStatus = "processed"
	TransferStatusRejected  TransferStatus = "rejected"
)

// Transfer links a withdrawal on one wallet with a deposit on another.
// It indexes the two transactions but does not own them. From and to may
// be the same wallet: a self-transfer is legal and nets to zero.
type Transfer struct {
	ID                    string
	FromWalletID          string
	ToWalletID            string
	WithdrawTransactionID *string
	DepositTransactionID  *string
	Status                TransferStatus
	Fee                   decimal.Decimal
	Discount              decimal.Decimal
	Meta                  map[string]any
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Validate validates a transfer request. The fee is deducted from the
// deposit leg and must not exceed the withdrawn amount.
func (t *Transfer) Validate(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrAmountInvalid
	}

	if t.Fee.IsNegative() || t.Fee.GreaterThan(amount) {
		return ErrAmountInvalid
	}

	if t.Discount.IsNegative() {
		return ErrAmountInvalid
	}

	return nil
}

// Terminal reports whether the transfer reached a final state.
func (t *Transfer) Terminal() bool {
	return t.Status == TransferStatusProcessed || t.Status == TransferStatusRejected
}
