package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateDecimalPlaces(ctx context.Context, id string, decimalPlaces int32, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// TransactionRepository defines data access for ledger transactions.
// Create is idempotent on the transaction ID: inserting an existing ID
// returns the stored row with inserted=false and applies nothing.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) (created *domain.Transaction, inserted bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Update(ctx context.Context, txn *domain.Transaction) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
	SumConfirmed(ctx context.Context, tx Transaction, walletID string) (decimal.Decimal, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) (created *domain.Transfer, inserted bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient failures such as deadlocks
// and lock timeouts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
