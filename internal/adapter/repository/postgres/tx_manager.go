package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/usecase"
)

// TxManager implements usecase.TransactionManager.
type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

type TxManager struct {
	pool        pgxPool
	lockTimeout int
}

// NewTxManager creates a new TxManager. lockTimeoutMillis bounds how long
// a transaction waits on a row lock before failing with lock contention;
// zero disables the bound.
func NewTxManager(pool *pgxpool.Pool, lockTimeoutMillis int) *TxManager {
	return newTxManagerWithPool(pool, lockTimeoutMillis)
}

func newTxManagerWithPool(pool pgxPool, lockTimeoutMillis int) *TxManager {
	return &TxManager{pool: pool, lockTimeout: lockTimeoutMillis}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if m.lockTimeout > 0 {
		_, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", m.lockTimeout))
		if err != nil {
			_ = tx.Rollback(ctx)

			return nil, err
		}
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
