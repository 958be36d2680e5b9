package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const walletColumns = `id, holder_ref, balance, decimal_places, created_at, updated_at`

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create creates a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets (`+walletColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		wallet.ID,
		wallet.HolderRef,
		decimalToNumeric(wallet.Balance),
		wallet.DecimalPlaces,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)

	return err
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)

	return scanWallet(row)
}

// GetByIDForUpdate retrieves a wallet by ID with a FOR UPDATE lock.
func (r *WalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, id)

	return scanWallet(row)
}

// GetByIDsForUpdate retrieves multiple wallets with FOR UPDATE locks,
// acquired in ascending ID order to keep lock ordering deterministic.
func (r *WalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, mapLockError(err)
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0, len(ids))
	for rows.Next() {
		wallet, err := scanWalletRow(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, mapLockError(err)
	}

	return wallets, nil
}

// UpdateBalance updates the cached balance of a wallet.
func (r *WalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE wallets SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// UpdateDecimalPlaces changes the wallet precision. Stored transaction
// amounts are deliberately left untouched.
func (r *WalletRepository) UpdateDecimalPlaces(ctx context.Context, id string, decimalPlaces int32, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wallets SET decimal_places = $2, updated_at = $3 WHERE id = $1`,
		id, decimalPlaces, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// List lists wallets with pagination.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+walletColumns+` FROM wallets ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWalletRow(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	wallet, err := scanWalletRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, mapLockError(err)
	}

	return wallet, nil
}

func scanWalletRow(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&wallet.ID,
		&wallet.HolderRef,
		&balance,
		&wallet.DecimalPlaces,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	wallet.Balance = numericToDecimal(balance)
	wallet.CreatedAt = createdAt.Time
	wallet.UpdatedAt = updatedAt.Time

	return &wallet, nil
}

// pgErrLockNotAvailable is raised when lock_timeout expires while waiting
// on a row lock.
const pgErrLockNotAvailable = "55P03"

// mapLockError surfaces a bounded-wait lock failure as a retryable
// contention error.
func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrLockNotAvailable {
		return domain.ErrLockContention
	}

	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
