package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/money"
)

// WalletResponse represents a wallet in API responses. Balance carries
// minor units; BalanceFloat renders it at the wallet's precision with
// all fractional digits.
type WalletResponse struct {
	ID            string          `json:"id"`
	HolderRef     string          `json:"holder_ref"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceFloat  string          `json:"balance_float"`
	DecimalPlaces int32           `json:"decimal_places"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:            w.ID,
		HolderRef:     w.HolderRef,
		Balance:       w.Balance,
		BalanceFloat:  money.FromMinorUnits(w.Balance, w.DecimalPlaces),
		DecimalPlaces: w.DecimalPlaces,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse wraps a page of wallets.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// BalanceResponse represents a wallet balance lookup.
type BalanceResponse struct {
	WalletID      string          `json:"wallet_id"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceFloat  string          `json:"balance_float"`
	DecimalPlaces int32           `json:"decimal_places"`
}

// BalanceFromDomain converts a domain wallet to a balance response.
func BalanceFromDomain(w *domain.Wallet) *BalanceResponse {
	return &BalanceResponse{
		WalletID:      w.ID,
		Balance:       w.Balance,
		BalanceFloat:  money.FromMinorUnits(w.Balance, w.DecimalPlaces),
		DecimalPlaces: w.DecimalPlaces,
	}
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID        string          `json:"id"`
	WalletID  string          `json:"wallet_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Confirmed bool            `json:"confirmed"`
	Meta      map[string]any  `json:"meta,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		WalletID:  t.WalletID,
		Type:      string(t.Type),
		Amount:    t.Amount,
		Confirmed: t.Confirmed,
		Meta:      t.Meta,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID                    string          `json:"id"`
	FromWalletID          string          `json:"from_wallet_id"`
	ToWalletID            string          `json:"to_wallet_id"`
	WithdrawTransactionID *string         `json:"withdraw_transaction_id,omitempty"`
	DepositTransactionID  *string         `json:"deposit_transaction_id,omitempty"`
	Status                string          `json:"status"`
	Fee                   decimal.Decimal `json:"fee"`
	Discount              decimal.Decimal `json:"discount"`
	Meta                  map[string]any  `json:"meta,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:                    t.ID,
		FromWalletID:          t.FromWalletID,
		ToWalletID:            t.ToWalletID,
		WithdrawTransactionID: t.WithdrawTransactionID,
		DepositTransactionID:  t.DepositTransactionID,
		Status:                string(t.Status),
		Fee:                   t.Fee,
		Discount:              t.Discount,
		Meta:                  t.Meta,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ListTransfersResponse wraps a page of transfers.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int64               `json:"total"`
}

// RecalculateResponse reports the rebuilt balance.
type RecalculateResponse struct {
	WalletID string          `json:"wallet_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
