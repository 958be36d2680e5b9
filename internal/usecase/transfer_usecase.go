package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/money"
)

// transferMode selects how insufficient funds are handled.
type transferMode int

const (
	// modeStrict fails with ErrBalanceIsEmpty.
	modeStrict transferMode = iota
	// modeSafe suppresses the failure into a nil result.
	modeSafe
	// modeForce skips the sufficiency check entirely.
	modeForce
)

func (m transferMode) String() string {
	switch m {
	case modeSafe:
		return "safe"
	case modeForce:
		return "force"
	default:
		return "strict"
	}
}

// TransferUseCase coordinates two-sided movements between wallets: a
// withdrawal on the source and a deposit on the destination settle in one
// database transaction or not at all. Wallet rows are locked in sorted ID
// order so two opposite transfers cannot deadlock.
type TransferUseCase struct {
	txManager    TransactionManager
	walletRepo   WalletRepository
	txnRepo      TransactionRepository
	transferRepo TransferRepository
	idGen        IDGenerator
	cache        Cache
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase. cache may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	txnRepo TransactionRepository,
	transferRepo TransferRepository,
	idGen IDGenerator,
	cache Cache,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		walletRepo:   walletRepo,
		txnRepo:      txnRepo,
		transferRepo: transferRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// WithRetrier makes the transfer path retry on transient database
// failures such as deadlocks and lock timeouts.
func (uc *TransferUseCase) WithRetrier(retrier Retrier) *TransferUseCase {
	uc.retrier = retrier
	return uc
}

// WithMetrics makes transfers increment Prometheus counters.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

// TransferInput represents input for a transfer between two wallets.
// From and to may be equal: a self-transfer records both legs and nets to
// zero. AmountFloat, when set, takes precedence over Amount and is
// interpreted at the source wallet's precision.
type TransferInput struct {
	FromWalletID string
	ToWalletID   string
	Amount       decimal.Decimal
	AmountFloat  string
	// Fee is deducted from the deposit leg: the destination receives
	// amount minus fee.
	Fee      decimal.Decimal
	Discount decimal.Decimal
	Meta     map[string]any
	// TransferID is an optional caller-supplied idempotency key.
	TransferID string
}

// Transfer moves funds between wallets. Insufficient funds on the source
// commit a rejected transfer and fail with ErrBalanceIsEmpty.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	return uc.run(ctx, input, modeStrict)
}

// SafeTransfer is Transfer, except insufficient funds return (nil, nil)
// instead of an error. Both balances are left unchanged.
func (uc *TransferUseCase) SafeTransfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	return uc.run(ctx, input, modeSafe)
}

// ForceTransfer never checks sufficiency; the source balance may go
// negative.
func (uc *TransferUseCase) ForceTransfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	return uc.run(ctx, input, modeForce)
}

func (uc *TransferUseCase) run(ctx context.Context, input TransferInput, mode transferMode) (*domain.Transfer, error) {
	start := time.Now()

	var transfer *domain.Transfer
	var err error

	if uc.retrier == nil {
		transfer, err = uc.attempt(ctx, input, mode)
	} else {
		err = uc.retrier.Retry(ctx, func() error {
			var attemptErr error
			transfer, attemptErr = uc.attempt(ctx, input, mode)
			return attemptErr
		})
	}

	if uc.metrics != nil {
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			uc.metrics.TransferErrors.WithLabelValues(transferErrorLabel(err)).Inc()
		}
	}

	return transfer, err
}

func transferErrorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrBalanceIsEmpty):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrLockContention):
		return "lock_contention"
	case errors.Is(err, domain.ErrAmountInvalid):
		return "amount_invalid"
	default:
		return "other"
	}
}

func (uc *TransferUseCase) attempt(ctx context.Context, input TransferInput, mode transferMode) (*domain.Transfer, error) {
	walletIDs := uniqueWalletIDs(input.FromWalletID, input.ToWalletID)
	sort.Strings(walletIDs)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(txCtx, tx, walletIDs)
	if err != nil {
		return nil, err
	}

	if len(wallets) != len(walletIDs) {
		return nil, domain.ErrWalletNotFound
	}

	walletMap := make(map[string]*domain.Wallet, len(wallets))
	for _, w := range wallets {
		walletMap[w.ID] = w
	}

	// Self-transfers resolve both legs to the same wallet value, so the
	// deposit leg sees the withdrawn balance.
	from := walletMap[input.FromWalletID]
	to := walletMap[input.ToWalletID]

	amount := input.Amount
	if input.AmountFloat != "" {
		amount, err = money.ToMinorUnits(input.AmountFloat, from.DecimalPlaces)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	transferID := input.TransferID
	if transferID == "" {
		transferID = uc.idGen.Generate()
	}

	transfer := &domain.Transfer{
		ID:           transferID,
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Status:       domain.TransferStatusPending,
		Fee:          input.Fee,
		Discount:     input.Discount,
		Meta:         input.Meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := transfer.Validate(amount); err != nil {
		return nil, err
	}

	created, inserted, err := uc.transferRepo.Create(txCtx, tx, transfer)
	if err != nil {
		return nil, err
	}

	// Idempotent replay: a transfer with this ID already reached some
	// state; terminal states are never re-opened.
	if !inserted {
		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}

		return created, nil
	}

	if mode != modeForce && !from.CanWithdraw(amount) {
		transfer.Status = domain.TransferStatusRejected
		if err := uc.transferRepo.UpdateStatus(txCtx, tx, transfer); err != nil {
			return nil, err
		}

		if err := tx.Commit(txCtx); err != nil {
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.TransfersRejected.Inc()
		}

		if mode == modeSafe {
			return nil, nil
		}

		return nil, domain.ErrBalanceIsEmpty
	}

	withdrawTxn, err := uc.appendLeg(txCtx, tx, from, domain.TransactionTypeWithdraw, amount.Neg(), input.Meta, now)
	if err != nil {
		return nil, err
	}
	transfer.WithdrawTransactionID = &withdrawTxn.ID

	// The destination receives the withdrawn amount minus the fee. A fee
	// consuming the whole amount leaves no deposit leg to record.
	depositAmount := amount.Sub(input.Fee)
	if depositAmount.IsPositive() {
		depositTxn, err := uc.appendLeg(txCtx, tx, to, domain.TransactionTypeDeposit, depositAmount, input.Meta, now)
		if err != nil {
			return nil, err
		}
		transfer.DepositTransactionID = &depositTxn.ID
	}

	transfer.Status = domain.TransferStatusProcessed
	transfer.UpdatedAt = now

	if err := uc.transferRepo.UpdateStatus(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.WithLabelValues(mode.String()).Inc()
	}

	return transfer, nil
}

// appendLeg records one confirmed transaction and moves the wallet balance.
func (uc *TransferUseCase) appendLeg(
	ctx context.Context,
	tx Transaction,
	wallet *domain.Wallet,
	txnType domain.TransactionType,
	signed decimal.Decimal,
	meta map[string]any,
	now time.Time,
) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		WalletID:  wallet.ID,
		Type:      txnType,
		Amount:    signed,
		Confirmed: true,
		Meta:      meta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	created, _, err := uc.txnRepo.Create(ctx, tx, txn)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Apply(signed)
	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance, now); err != nil {
		return nil, err
	}
	wallet.Balance = newBalance

	return created, nil
}

// GetTransfer retrieves a transfer by ID. Terminal transfers are cached:
// they never change again.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	cacheKey := "transfer:" + id

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil && raw != nil {
			var transfer domain.Transfer
			if err := json.Unmarshal(raw, &transfer); err == nil {
				return &transfer, nil
			}
		}
	}

	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && transfer.Terminal() {
		if raw, err := json.Marshal(transfer); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, raw, TransferCacheTTL)
		}
	}

	return transfer, nil
}

// ListTransfersByWalletInput represents input for listing transfers.
type ListTransfersByWalletInput struct {
	WalletID string
	Limit    int
	Offset   int
}

// ListTransfersByWallet lists transfers touching a wallet on either side.
func (uc *TransferUseCase) ListTransfersByWallet(ctx context.Context, input ListTransfersByWalletInput) ([]*domain.Transfer, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.transferRepo.ListByWallet(ctx, input.WalletID, limit, offset)
}

func uniqueWalletIDs(from, to string) []string {
	if from == to {
		return []string{from}
	}

	return []string{from, to}
}
