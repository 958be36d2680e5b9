package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/money"
)

// WalletUseCase handles wallet business logic: creation, deposits,
// withdrawals and balance recalculation. Every mutation appends exactly one
// ledger transaction and updates the cached balance in the same database
// transaction, under a row lock on the wallet.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		idGen:      idGen,
	}
}

// WithMetrics makes wallet operations increment Prometheus counters.
func (uc *WalletUseCase) WithMetrics(m *metrics.Metrics) *WalletUseCase {
	uc.metrics = m
	return uc
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	HolderRef     string
	DecimalPlaces int32
}

// CreateWallet creates a new wallet with a zero balance.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateHolderRef(input.HolderRef); err != nil {
		return nil, err
	}

	if err := domain.ValidateDecimalPlaces(input.DecimalPlaces); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	wallet := &domain.Wallet{
		ID:            uc.idGen.Generate(),
		HolderRef:     input.HolderRef,
		Balance:       decimal.Zero,
		DecimalPlaces: input.DecimalPlaces,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// ListWalletsInput represents input for listing wallets.
type ListWalletsInput struct {
	Limit  int
	Offset int
}

// ListWallets lists wallets with pagination.
func (uc *WalletUseCase) ListWallets(ctx context.Context, input ListWalletsInput) ([]*domain.Wallet, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.walletRepo.List(ctx, limit, offset)
}

// DepositInput represents a minor-unit deposit.
type DepositInput struct {
	WalletID string
	Amount   decimal.Decimal
	Meta     map[string]any
	// Unconfirmed transactions are recorded but excluded from the balance
	// until confirmed and recalculated.
	Unconfirmed bool
	// TransactionID is an optional caller-supplied idempotency key.
	TransactionID string
}

// Deposit credits a wallet by a positive minor-unit amount.
func (uc *WalletUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transaction, error) {
	return uc.apply(ctx, mutation{
		walletID:    input.WalletID,
		amountMinor: input.Amount,
		txnType:     domain.TransactionTypeDeposit,
		meta:        input.Meta,
		confirmed:   !input.Unconfirmed,
		txnID:       input.TransactionID,
	})
}

// DepositFloatInput represents a fractional-amount deposit.
type DepositFloatInput struct {
	WalletID      string
	Amount        string
	Meta          map[string]any
	Unconfirmed   bool
	TransactionID string
}

// DepositFloat credits a wallet by a fractional amount. The amount is
// rounded to the wallet's decimal places before conversion to minor units,
// so repeated fractional deposits are lossless relative to the wallet's
// declared precision.
func (uc *WalletUseCase) DepositFloat(ctx context.Context, input DepositFloatInput) (*domain.Transaction, error) {
	return uc.apply(ctx, mutation{
		walletID:    input.WalletID,
		amountFloat: input.Amount,
		isFloat:     true,
		txnType:     domain.TransactionTypeDeposit,
		meta:        input.Meta,
		confirmed:   !input.Unconfirmed,
		txnID:       input.TransactionID,
	})
}

// WithdrawInput represents a minor-unit withdrawal.
type WithdrawInput struct {
	WalletID      string
	Amount        decimal.Decimal
	Meta          map[string]any
	Unconfirmed   bool
	TransactionID string
	// Force bypasses the non-negative balance check.
	Force bool
}

// Withdraw debits a wallet by a positive minor-unit amount. Without Force,
// a withdrawal that would drive the balance negative fails with
// ErrBalanceIsEmpty.
func (uc *WalletUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	return uc.apply(ctx, mutation{
		walletID:    input.WalletID,
		amountMinor: input.Amount,
		txnType:     domain.TransactionTypeWithdraw,
		meta:        input.Meta,
		confirmed:   !input.Unconfirmed,
		force:       input.Force,
		txnID:       input.TransactionID,
	})
}

// ForceWithdraw debits a wallet without the non-negative balance check.
// The balance may go negative.
func (uc *WalletUseCase) ForceWithdraw(ctx context.Context, input WithdrawInput) (*domain.Transaction, error) {
	input.Force = true
	return uc.Withdraw(ctx, input)
}

// WithdrawFloatInput represents a fractional-amount withdrawal.
type WithdrawFloatInput struct {
	WalletID      string
	Amount        string
	Meta          map[string]any
	Unconfirmed   bool
	TransactionID string
	Force         bool
}

// WithdrawFloat debits a wallet by a fractional amount, rounded to the
// wallet's decimal places before conversion.
func (uc *WalletUseCase) WithdrawFloat(ctx context.Context, input WithdrawFloatInput) (*domain.Transaction, error) {
	return uc.apply(ctx, mutation{
		walletID:    input.WalletID,
		amountFloat: input.Amount,
		isFloat:     true,
		txnType:     domain.TransactionTypeWithdraw,
		meta:        input.Meta,
		confirmed:   !input.Unconfirmed,
		force:       input.Force,
		txnID:       input.TransactionID,
	})
}

// ForceWithdrawFloat is WithdrawFloat without the balance check.
func (uc *WalletUseCase) ForceWithdrawFloat(ctx context.Context, input WithdrawFloatInput) (*domain.Transaction, error) {
	input.Force = true
	return uc.WithdrawFloat(ctx, input)
}

// CanWithdraw reports whether the wallet balance covers a minor-unit amount.
func (uc *WalletUseCase) CanWithdraw(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return false, err
	}

	return amount.IsPositive() && wallet.CanWithdraw(amount), nil
}

// CanWithdrawFloat reports whether the balance covers a fractional amount.
func (uc *WalletUseCase) CanWithdrawFloat(ctx context.Context, walletID string, amount string) (bool, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return false, err
	}

	minor, err := money.ToMinorUnits(amount, wallet.DecimalPlaces)
	if err != nil {
		return false, err
	}

	return minor.IsPositive() && wallet.CanWithdraw(minor), nil
}

// RecalculateBalance rebuilds the cached balance from the sum of confirmed
// transactions and persists it. Used to repair drift after out-of-band
// transaction edits; idempotent.
func (uc *WalletUseCase) RecalculateBalance(ctx context.Context, walletID string) (decimal.Decimal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer tx.Rollback(txCtx)

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	sum, err := uc.txnRepo.SumConfirmed(txCtx, tx, wallet.ID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := uc.walletRepo.UpdateBalance(txCtx, tx, wallet.ID, sum, time.Now().UTC()); err != nil {
		return decimal.Decimal{}, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return decimal.Decimal{}, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceRecalcs.Inc()
	}

	return sum, nil
}

// SetDecimalPlaces changes the wallet precision. Stored transaction amounts
// are never rescaled: the new precision only affects how future fractional
// amounts are interpreted and how the balance is rendered. Callers that
// need stored mantissas reinterpreted must call RecalculateBalance.
func (uc *WalletUseCase) SetDecimalPlaces(ctx context.Context, walletID string, decimalPlaces int32) (*domain.Wallet, error) {
	if err := domain.ValidateDecimalPlaces(decimalPlaces); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.UpdateDecimalPlaces(ctx, walletID, decimalPlaces, time.Now().UTC()); err != nil {
		return nil, err
	}

	return uc.walletRepo.GetByID(ctx, walletID)
}

// mutation is a resolved single-wallet balance change.
type mutation struct {
	walletID    string
	amountMinor decimal.Decimal
	amountFloat string
	isFloat     bool
	txnType     domain.TransactionType
	meta        map[string]any
	confirmed   bool
	force       bool
	txnID       string
}

// apply appends one transaction and, when confirmed, moves the cached
// balance inside the same database transaction. The wallet row stays
// locked for the whole read-modify-write.
func (uc *WalletUseCase) apply(ctx context.Context, m mutation) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, m.walletID)
	if err != nil {
		return nil, err
	}

	// Fractional amounts resolve against the locked wallet's precision so
	// a concurrent SetDecimalPlaces cannot slip between parse and append.
	magnitude := m.amountMinor
	if m.isFloat {
		magnitude, err = money.ToMinorUnits(m.amountFloat, wallet.DecimalPlaces)
		if err != nil {
			return nil, err
		}
	}

	signed, err := uc.validateAmount(wallet, m, magnitude)
	if err != nil {
		return nil, err
	}

	txnID := m.txnID
	if txnID == "" {
		txnID = uc.idGen.Generate()
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:        txnID,
		WalletID:  wallet.ID,
		Type:      m.txnType,
		Amount:    signed,
		Confirmed: m.confirmed,
		Meta:      m.meta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	created, inserted, err := uc.txnRepo.Create(txCtx, tx, txn)
	if err != nil {
		return nil, err
	}

	// Only a fresh confirmed insert moves the balance; a replayed
	// transaction ID is a no-op returning the stored row.
	if inserted && m.confirmed {
		if err := uc.walletRepo.UpdateBalance(txCtx, tx, wallet.ID, wallet.Apply(signed), now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil && inserted {
		uc.metrics.WalletOperations.WithLabelValues(string(m.txnType)).Inc()
		uc.metrics.TransactionsCreated.WithLabelValues(string(m.txnType)).Inc()
	}

	return created, nil
}

// validateAmount enforces sign rules and the non-negative balance
// invariant, returning the signed minor-unit amount.
func (uc *WalletUseCase) validateAmount(wallet *domain.Wallet, m mutation, magnitude decimal.Decimal) (decimal.Decimal, error) {
	if m.txnType == domain.TransactionTypeDeposit {
		if magnitude.LessThanOrEqual(decimal.Zero) {
			return decimal.Decimal{}, domain.ErrAmountInvalid
		}

		return magnitude, nil
	}

	if magnitude.IsZero() {
		return decimal.Decimal{}, domain.ErrAmountInvalid
	}

	// Non-force confirmed withdrawals must keep the balance non-negative.
	// A negative requested magnitude can never be covered either.
	if m.confirmed && !m.force {
		if magnitude.IsNegative() || !wallet.CanWithdraw(magnitude) {
			return decimal.Decimal{}, domain.ErrBalanceIsEmpty
		}
	} else if magnitude.IsNegative() {
		return decimal.Decimal{}, domain.ErrAmountInvalid
	}

	return magnitude.Neg(), nil
}
