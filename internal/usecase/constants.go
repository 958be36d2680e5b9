package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// TransferCacheTTL is how long terminal transfers are cached for reads.
	// Processed and rejected transfers never change again, so caching is safe.
	TransferCacheTTL = time.Hour
)
