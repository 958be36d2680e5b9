package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/money"
)

// TransactionUseCase handles ledger transaction reads and edits.
type TransactionUseCase struct {
	walletRepo WalletRepository
	txnRepo    TransactionRepository
	metrics    *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(walletRepo WalletRepository, txnRepo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
	}
}

// WithMetrics makes transaction edits increment Prometheus counters.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactionsByWalletInput represents input for listing transactions.
type ListTransactionsByWalletInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListTransactionsByWallet lists a wallet's transactions, newest first.
func (uc *TransactionUseCase) ListTransactionsByWallet(ctx context.Context, input ListTransactionsByWalletInput) ([]*domain.Transaction, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.txnRepo.ListByWallet(ctx, input.WalletID, limit, offset)
}

// UpdateTransactionInput represents an edit to a past transaction.
// Nil fields are left unchanged.
type UpdateTransactionInput struct {
	ID          string
	Type        *domain.TransactionType
	Amount      *decimal.Decimal
	AmountFloat *string
	Confirmed   *bool
}

// UpdateTransaction edits a past ledger entry, e.g. to correct it or to
// retract it by flipping Confirmed. The amount sign is normalized to the
// (possibly new) type. The cached wallet balance is not touched and stays
// stale until the caller runs RecalculateBalance.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	txn, err := uc.txnRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		txn.Type = *input.Type
	}

	if input.Amount != nil {
		txn.Amount = *input.Amount
	}

	if input.AmountFloat != nil {
		wallet, err := uc.walletRepo.GetByID(ctx, txn.WalletID)
		if err != nil {
			return nil, err
		}

		minor, err := money.ToMinorUnits(*input.AmountFloat, wallet.DecimalPlaces)
		if err != nil {
			return nil, err
		}

		txn.Amount = minor
	}

	if input.Confirmed != nil {
		txn.Confirmed = *input.Confirmed
	}

	txn.Normalize()

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	txn.UpdatedAt = time.Now().UTC()

	if err := uc.txnRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsEdited.Inc()
	}

	return txn, nil
}
