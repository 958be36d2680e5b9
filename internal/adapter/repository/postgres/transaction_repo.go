package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const transactionColumns = `id, wallet_id, type, amount, confirmed, meta, created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a ledger transaction. A duplicate ID is treated as an
// idempotent replay: the stored row is returned with inserted=false and
// no new row is written.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		txn.ID,
		txn.WalletID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		txn.Confirmed,
		txn.Meta,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return nil, false, err
	}

	if tag.RowsAffected() > 0 {
		return txn, true, nil
	}

	row := pgxTx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, txn.ID)

	existing, err := scanTransactionRow(row)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	txn, err := scanTransactionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

// Update rewrites the mutable fields of a stored transaction.
func (r *TransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions
		 SET type = $2, amount = $3, confirmed = $4, meta = $5, updated_at = $6
		 WHERE id = $1`,
		txn.ID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		txn.Confirmed,
		txn.Meta,
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByWallet lists wallet transactions newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE wallet_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// SumConfirmed sums confirmed transaction amounts for a wallet inside the
// caller's transaction. This is the ledger-derived balance.
func (r *TransactionRepository) SumConfirmed(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var sum pgtype.Numeric
	err := pgxTx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE wallet_id = $1 AND confirmed`,
		walletID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		txnType   string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.WalletID,
		&txnType,
		&amount,
		&txn.Confirmed,
		&txn.Meta,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Amount = numericToDecimal(amount)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
