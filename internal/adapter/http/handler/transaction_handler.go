package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByWallet(ctx context.Context, input usecase.ListTransactionsByWalletInput) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
}

// TransactionHandler handles ledger transaction HTTP requests.
type TransactionHandler struct {
	txnUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txnUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txnUC: txnUC}
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	txn, err := h.txnUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByWallet lists a wallet's transactions.
func (h *TransactionHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.txnUC.ListTransactionsByWallet(r.Context(), usecase.ListTransactionsByWalletInput{
		WalletID: walletID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// Update edits a past transaction. The wallet balance is not adjusted;
// clients repair it with a recalculation.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transaction update", err.Error())
		return
	}

	txn, err := h.txnUC.UpdateTransaction(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
