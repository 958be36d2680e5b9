package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// CreateWalletRequest represents a request to create a wallet.
type CreateWalletRequest struct {
	HolderRef     string `json:"holder_ref"`
	DecimalPlaces int32  `json:"decimal_places"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		HolderRef:     r.HolderRef,
		DecimalPlaces: r.DecimalPlaces,
	}
}

// MutationRequest represents a deposit or withdrawal. Amount carries
// minor units as a decimal string; AmountFloat carries a fractional
// amount interpreted at the wallet's precision. Exactly one must be set.
// Confirmed defaults to true when omitted.
type MutationRequest struct {
	Amount        string         `json:"amount,omitempty"`
	AmountFloat   string         `json:"amount_float,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
	Confirmed     *bool          `json:"confirmed,omitempty"`
	TransactionID string         `json:"transaction_id,omitempty"`
}

// Unconfirmed reports whether the request opts out of confirmation.
func (r *MutationRequest) Unconfirmed() bool {
	return r.Confirmed != nil && !*r.Confirmed
}

// MinorAmount parses the minor-unit amount string.
func (r *MutationRequest) MinorAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Decimal{}, domain.ErrAmountInvalid
	}

	return amount, nil
}

// ToDepositInput converts to a minor-unit deposit input.
func (r *MutationRequest) ToDepositInput(walletID string) (usecase.DepositInput, error) {
	amount, err := r.MinorAmount()
	if err != nil {
		return usecase.DepositInput{}, err
	}

	return usecase.DepositInput{
		WalletID:      walletID,
		Amount:        amount,
		Meta:          r.Meta,
		Unconfirmed:   r.Unconfirmed(),
		TransactionID: r.TransactionID,
	}, nil
}

// ToDepositFloatInput converts to a fractional deposit input.
func (r *MutationRequest) ToDepositFloatInput(walletID string) usecase.DepositFloatInput {
	return usecase.DepositFloatInput{
		WalletID:      walletID,
		Amount:        r.AmountFloat,
		Meta:          r.Meta,
		Unconfirmed:   r.Unconfirmed(),
		TransactionID: r.TransactionID,
	}
}

// ToWithdrawInput converts to a minor-unit withdrawal input.
func (r *MutationRequest) ToWithdrawInput(walletID string, force bool) (usecase.WithdrawInput, error) {
	amount, err := r.MinorAmount()
	if err != nil {
		return usecase.WithdrawInput{}, err
	}

	return usecase.WithdrawInput{
		WalletID:      walletID,
		Amount:        amount,
		Meta:          r.Meta,
		Unconfirmed:   r.Unconfirmed(),
		TransactionID: r.TransactionID,
		Force:         force,
	}, nil
}

// ToWithdrawFloatInput converts to a fractional withdrawal input.
func (r *MutationRequest) ToWithdrawFloatInput(walletID string, force bool) usecase.WithdrawFloatInput {
	return usecase.WithdrawFloatInput{
		WalletID:      walletID,
		Amount:        r.AmountFloat,
		Meta:          r.Meta,
		Unconfirmed:   r.Unconfirmed(),
		TransactionID: r.TransactionID,
		Force:         force,
	}
}

// SetDecimalPlacesRequest changes a wallet's precision.
type SetDecimalPlacesRequest struct {
	DecimalPlaces int32 `json:"decimal_places"`
}

// UpdateTransactionRequest edits a past ledger transaction. Nil fields
// are left unchanged.
type UpdateTransactionRequest struct {
	Type        *string `json:"type,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	AmountFloat *string `json:"amount_float,omitempty"`
	Confirmed   *bool   `json:"confirmed,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(id string) (usecase.UpdateTransactionInput, error) {
	input := usecase.UpdateTransactionInput{
		ID:          id,
		AmountFloat: r.AmountFloat,
		Confirmed:   r.Confirmed,
	}

	if r.Type != nil {
		txnType := domain.TransactionType(*r.Type)
		input.Type = &txnType
	}

	if r.Amount != nil {
		amount, err := decimal.NewFromString(*r.Amount)
		if err != nil {
			return usecase.UpdateTransactionInput{}, domain.ErrAmountInvalid
		}
		input.Amount = &amount
	}

	return input, nil
}

// CreateTransferRequest represents a request to move funds between two
// wallets. Mode selects insufficient-funds handling: "strict" (default)
// fails, "safe" returns no transfer, "force" allows a negative source
// balance.
type CreateTransferRequest struct {
	FromWalletID string         `json:"from_wallet_id"`
	ToWalletID   string         `json:"to_wallet_id"`
	Amount       string         `json:"amount,omitempty"`
	AmountFloat  string         `json:"amount_float,omitempty"`
	Fee          string         `json:"fee,omitempty"`
	Discount     string         `json:"discount,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
	Mode         string         `json:"mode,omitempty"`
	TransferID   string         `json:"transfer_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	input := usecase.TransferInput{
		FromWalletID: r.FromWalletID,
		ToWalletID:   r.ToWalletID,
		AmountFloat:  r.AmountFloat,
		Meta:         r.Meta,
		TransferID:   r.TransferID,
	}

	var err error
	if r.Amount != "" {
		input.Amount, err = decimal.NewFromString(r.Amount)
		if err != nil {
			return usecase.TransferInput{}, domain.ErrAmountInvalid
		}
	}

	if r.Fee != "" {
		input.Fee, err = decimal.NewFromString(r.Fee)
		if err != nil {
			return usecase.TransferInput{}, domain.ErrAmountInvalid
		}
	}

	if r.Discount != "" {
		input.Discount, err = decimal.NewFromString(r.Discount)
		if err != nil {
			return usecase.TransferInput{}, domain.ErrAmountInvalid
		}
	}

	return input, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
