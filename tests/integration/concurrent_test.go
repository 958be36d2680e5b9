package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/tests/testutil"
)

func TestConcurrentWithdrawals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	walletRepo := postgres.NewWalletRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	txManager := postgres.NewTxManager(pool, testLockTimeoutMillis)
	idGen := postgres.NewULIDGenerator()

	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, txnRepo, idGen)

	t.Run("100 concurrent withdrawals never overdraw", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance covers exactly 100 withdrawals of 10.
		wallet := testDB.CreateTestWalletWithBalance(ctx, "hot", 2, decimal.NewFromInt(1000))

		numWithdrawals := 100
		amount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numWithdrawals)

		for range numWithdrawals {
			go func() {
				defer wg.Done()

				_, err := walletUC.Withdraw(ctx, usecase.WithdrawInput{
					WalletID: wallet.ID,
					Amount:   amount,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numWithdrawals) {
			t.Errorf("expected %d successful withdrawals, got %d (errors: %d)",
				numWithdrawals, successCount.Load(), errorCount.Load())
		}

		stored, err := walletRepo.GetByID(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("failed to load wallet: %v", err)
		}
		if !stored.Balance.IsZero() {
			t.Errorf("expected drained balance zero, got %s", stored.Balance)
		}
	})

	t.Run("withdrawals beyond the balance fail instead of overdrawing", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance covers only half the attempted withdrawals.
		wallet := testDB.CreateTestWalletWithBalance(ctx, "thin", 2, decimal.NewFromInt(500))

		numAttempts := 100
		amount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numAttempts)

		for range numAttempts {
			go func() {
				defer wg.Done()

				if _, err := walletUC.Withdraw(ctx, usecase.WithdrawInput{
					WalletID: wallet.ID,
					Amount:   amount,
				}); err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 50 {
			t.Errorf("expected exactly 50 successful withdrawals, got %d", successCount.Load())
		}

		stored, err := walletRepo.GetByID(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("failed to load wallet: %v", err)
		}
		if stored.Balance.IsNegative() {
			t.Errorf("balance went negative: %s", stored.Balance)
		}
	})
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	walletRepo := postgres.NewWalletRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	txManager := postgres.NewTxManager(pool, testLockTimeoutMillis)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	transferUC := usecase.NewTransferUseCase(txManager, walletRepo, txnRepo, transferRepo, idGen, nil).
		WithRetrier(retrier)

	// Opposite transfers lock rows in sorted wallet ID order, so A->B and
	// B->A running together must both succeed without deadlocking.
	walletA := testDB.CreateTestWalletWithBalance(ctx, "a", 2, decimal.NewFromInt(1000))
	walletB := testDB.CreateTestWalletWithBalance(ctx, "b", 2, decimal.NewFromInt(1000))

	numPairs := 50
	amount := decimal.NewFromInt(10)

	var (
		wg       sync.WaitGroup
		failures atomic.Int32
	)

	wg.Add(numPairs * 2)

	for range numPairs {
		go func() {
			defer wg.Done()

			if _, err := transferUC.Transfer(ctx, usecase.TransferInput{
				FromWalletID: walletA.ID,
				ToWalletID:   walletB.ID,
				Amount:       amount,
			}); err != nil {
				failures.Add(1)
			}
		}()

		go func() {
			defer wg.Done()

			if _, err := transferUC.Transfer(ctx, usecase.TransferInput{
				FromWalletID: walletB.ID,
				ToWalletID:   walletA.ID,
				Amount:       amount,
			}); err != nil {
				failures.Add(1)
			}
		}()
	}

	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("expected all opposite transfers to succeed, got %d failures", failures.Load())
	}

	storedA, err := walletRepo.GetByID(ctx, walletA.ID)
	if err != nil {
		t.Fatalf("failed to load wallet a: %v", err)
	}
	storedB, err := walletRepo.GetByID(ctx, walletB.ID)
	if err != nil {
		t.Fatalf("failed to load wallet b: %v", err)
	}

	if !storedA.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected wallet a back at 1000, got %s", storedA.Balance)
	}
	if !storedB.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected wallet b back at 1000, got %s", storedB.Balance)
	}
}
