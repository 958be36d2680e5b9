package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/money"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func TestLedgerEdgeCases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	walletRepo := postgres.NewWalletRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	txManager := postgres.NewTxManager(pool, testLockTimeoutMillis)
	idGen := postgres.NewULIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, txnRepo, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, walletRepo, txnRepo, transferRepo, idGen, nil)

	t.Run("fee consuming the whole amount skips the deposit leg", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		source := testDB.CreateTestWalletWithBalance(ctx, "source", 2, decimal.NewFromInt(100))
		dest := testDB.CreateTestWallet(ctx, "dest", 2)

		transfer, err := transferUC.Transfer(ctx, usecase.TransferInput{
			FromWalletID: source.ID,
			ToWalletID:   dest.ID,
			Amount:       decimal.NewFromInt(50),
			Fee:          decimal.NewFromInt(50),
		})
		if err != nil {
			t.Fatalf("transfer failed: %v", err)
		}

		if transfer.Status != domain.TransferStatusProcessed {
			t.Errorf("expected processed transfer, got %s", transfer.Status)
		}
		if transfer.WithdrawTransactionID == nil {
			t.Error("expected a withdraw leg")
		}
		if transfer.DepositTransactionID != nil {
			t.Error("expected no deposit leg when the fee equals the amount")
		}

		destWallet, _ := walletRepo.GetByID(ctx, dest.ID)
		if !destWallet.Balance.IsZero() {
			t.Errorf("expected dest untouched, got %s", destWallet.Balance)
		}
	})

	t.Run("fee exceeding the amount is invalid", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		source := testDB.CreateTestWalletWithBalance(ctx, "source", 2, decimal.NewFromInt(100))
		dest := testDB.CreateTestWallet(ctx, "dest", 2)

		_, err := transferUC.Transfer(ctx, usecase.TransferInput{
			FromWalletID: source.ID,
			ToWalletID:   dest.ID,
			Amount:       decimal.NewFromInt(50),
			Fee:          decimal.NewFromInt(51),
		})
		if err != domain.ErrAmountInvalid {
			t.Fatalf("expected ErrAmountInvalid, got %v", err)
		}
	})

	t.Run("high precision amounts survive a round trip", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		wallet := testDB.CreateTestWallet(ctx, "precise", 32)

		_, err := walletUC.DepositFloat(ctx, usecase.DepositFloatInput{
			WalletID: wallet.ID,
			Amount:   "256.00000256000000000000000000000001",
		})
		if err != nil {
			t.Fatalf("deposit failed: %v", err)
		}

		stored, err := walletRepo.GetByID(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("failed to load wallet: %v", err)
		}

		want, _ := decimal.NewFromString("25600000256000000000000000000000001")
		if !stored.Balance.Equal(want) {
			t.Errorf("expected minor-unit balance %s, got %s", want, stored.Balance)
		}

		if got := money.FromMinorUnits(stored.Balance, 32); got != "256.00000256000000000000000000000001" {
			t.Errorf("unexpected rendered balance %s", got)
		}
	})

	t.Run("changing decimal places never rescales stored amounts", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		wallet := testDB.CreateTestWallet(ctx, "rescale", 2)

		if _, err := walletUC.DepositFloat(ctx, usecase.DepositFloatInput{
			WalletID: wallet.ID,
			Amount:   "10.00",
		}); err != nil {
			t.Fatalf("deposit failed: %v", err)
		}

		updated, err := walletUC.SetDecimalPlaces(ctx, wallet.ID, 4)
		if err != nil {
			t.Fatalf("set decimal places failed: %v", err)
		}

		// The stored mantissa stays 1000; only its interpretation shifts.
		if !updated.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected stored balance 1000, got %s", updated.Balance)
		}
		if got := money.FromMinorUnits(updated.Balance, updated.DecimalPlaces); got != "0.1000" {
			t.Errorf("expected rendered balance 0.1000, got %s", got)
		}
	})

	t.Run("float transfer resolves at the source precision", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		source := testDB.CreateTestWalletWithBalance(ctx, "source", 2, decimal.NewFromInt(1000))
		dest := testDB.CreateTestWallet(ctx, "dest", 4)

		transfer, err := transferUC.Transfer(ctx, usecase.TransferInput{
			FromWalletID: source.ID,
			ToWalletID:   dest.ID,
			AmountFloat:  "1.50",
		})
		if err != nil {
			t.Fatalf("transfer failed: %v", err)
		}
		if transfer.Status != domain.TransferStatusProcessed {
			t.Fatalf("expected processed transfer, got %s", transfer.Status)
		}

		sourceWallet, _ := walletRepo.GetByID(ctx, source.ID)
		destWallet, _ := walletRepo.GetByID(ctx, dest.ID)

		// 1.50 at two places is 150 minor units on both sides.
		if !sourceWallet.Balance.Equal(decimal.NewFromInt(850)) {
			t.Errorf("expected source balance 850, got %s", sourceWallet.Balance)
		}
		if !destWallet.Balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected dest balance 150, got %s", destWallet.Balance)
		}
	})

	t.Run("zero amount mutations are invalid", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		wallet := testDB.CreateTestWallet(ctx, "zero", 2)

		if _, err := walletUC.Deposit(ctx, usecase.DepositInput{
			WalletID: wallet.ID,
			Amount:   decimal.Zero,
		}); err != domain.ErrAmountInvalid {
			t.Errorf("expected ErrAmountInvalid for zero deposit, got %v", err)
		}

		if _, err := walletUC.Withdraw(ctx, usecase.WithdrawInput{
			WalletID: wallet.ID,
			Amount:   decimal.Zero,
		}); err != domain.ErrAmountInvalid {
			t.Errorf("expected ErrAmountInvalid for zero withdrawal, got %v", err)
		}
	})
}
