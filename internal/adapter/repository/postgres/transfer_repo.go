package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const transferColumns = `id, from_wallet_id, to_wallet_id, withdraw_transaction_id, deposit_transaction_id,
	status, fee, discount, meta, created_at, updated_at`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a transfer record. A duplicate ID returns the stored row
// with inserted=false, so replays never produce a second transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) (*domain.Transfer, bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`INSERT INTO transfers (`+transferColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		transfer.ID,
		transfer.FromWalletID,
		transfer.ToWalletID,
		transfer.WithdrawTransactionID,
		transfer.DepositTransactionID,
		string(transfer.Status),
		decimalToNumeric(transfer.Fee),
		decimalToNumeric(transfer.Discount),
		transfer.Meta,
		timeToPgTimestamptz(transfer.CreatedAt),
		timeToPgTimestamptz(transfer.UpdatedAt),
	)
	if err != nil {
		return nil, false, err
	}

	if tag.RowsAffected() > 0 {
		return transfer, true, nil
	}

	row := pgxTx.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, transfer.ID)

	existing, err := scanTransferRow(row)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)

	transfer, err := scanTransferRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return transfer, nil
}

// UpdateStatus finalizes a transfer inside the caller's transaction,
// linking the ledger legs written for it.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE transfers
		 SET withdraw_transaction_id = $2, deposit_transaction_id = $3, status = $4, updated_at = $5
		 WHERE id = $1`,
		transfer.ID,
		transfer.WithdrawTransactionID,
		transfer.DepositTransactionID,
		string(transfer.Status),
		timeToPgTimestamptz(transfer.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// ListByWallet lists transfers touching a wallet on either side,
// newest first.
func (r *TransferRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transferColumns+` FROM transfers
		 WHERE from_wallet_id = $1 OR to_wallet_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransferRow(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransferRow(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer  domain.Transfer
		status    string
		fee       pgtype.Numeric
		discount  pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.FromWalletID,
		&transfer.ToWalletID,
		&transfer.WithdrawTransactionID,
		&transfer.DepositTransactionID,
		&status,
		&fee,
		&discount,
		&transfer.Meta,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	transfer.Status = domain.TransferStatus(status)
	transfer.Fee = numericToDecimal(fee)
	transfer.Discount = numericToDecimal(discount)
	transfer.CreatedAt = createdAt.Time
	transfer.UpdatedAt = updatedAt.Time

	return &transfer, nil
}
