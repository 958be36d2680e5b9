package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, input usecase.ListWalletsInput) ([]*domain.Wallet, error)
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Transaction, error)
	DepositFloat(ctx context.Context, input usecase.DepositFloatInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Transaction, error)
	WithdrawFloat(ctx context.Context, input usecase.WithdrawFloatInput) (*domain.Transaction, error)
	RecalculateBalance(ctx context.Context, walletID string) (decimal.Decimal, error)
	SetDecimalPlaces(ctx context.Context, walletID string, decimalPlaces int32) (*domain.Wallet, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Create creates a new wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves a wallet by ID.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists wallets.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	wallets, err := h.walletUC.ListWallets(r.Context(), usecase.ListWalletsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list wallets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWalletsResponse{
		Wallets: dto.WalletsFromDomain(wallets),
		Total:   int64(len(wallets)),
	})
}

// Balance returns the cached wallet balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wallet, err := h.walletUC.GetWallet(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(wallet))
}

// Deposit credits a wallet. A request carrying amount_float is
// interpreted at the wallet's precision; amount carries minor units.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var (
		txn *domain.Transaction
		err error
	)

	if req.AmountFloat != "" {
		txn, err = h.walletUC.DepositFloat(r.Context(), req.ToDepositFloatInput(id))
	} else {
		var input usecase.DepositInput
		input, err = req.ToDepositInput(id)
		if err == nil {
			txn, err = h.walletUC.Deposit(r.Context(), input)
		}
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw debits a wallet. The force query parameter bypasses the
// non-negative balance check.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force := parseBoolQuery(r, "force")

	var req dto.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var (
		txn *domain.Transaction
		err error
	)

	if req.AmountFloat != "" {
		txn, err = h.walletUC.WithdrawFloat(r.Context(), req.ToWithdrawFloatInput(id, force))
	} else {
		var input usecase.WithdrawInput
		input, err = req.ToWithdrawInput(id, force)
		if err == nil {
			txn, err = h.walletUC.Withdraw(r.Context(), input)
		}
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// SetDecimalPlaces changes the wallet precision.
func (h *WalletHandler) SetDecimalPlaces(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SetDecimalPlacesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	wallet, err := h.walletUC.SetDecimalPlaces(r.Context(), id, req.DecimalPlaces)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to set decimal places", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Recalculate rebuilds the cached balance from confirmed transactions.
func (h *WalletHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.walletUC.RecalculateBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to recalculate balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateResponse{
		WalletID: id,
		Balance:  balance,
	})
}
