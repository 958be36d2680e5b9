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

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	SafeTransfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	ForceTransfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListTransfersByWallet(ctx context.Context, input usecase.ListTransfersByWalletInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create creates a new transfer. The request mode selects strict, safe
// or force semantics; a safe transfer short of funds returns 200 with a
// null transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transfer request", err.Error())
		return
	}

	var transfer *domain.Transfer

	switch req.Mode {
	case "", "strict":
		transfer, err = h.transferUC.Transfer(r.Context(), input)
	case "safe":
		transfer, err = h.transferUC.SafeTransfer(r.Context(), input)
	case "force":
		transfer, err = h.transferUC.ForceTransfer(r.Context(), input)
	default:
		writeError(w, http.StatusBadRequest, "invalid transfer mode", req.Mode)
		return
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	if transfer == nil {
		writeJSON(w, http.StatusOK, map[string]any{"transfer": nil})
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// ListByWallet lists transfers touching a wallet on either side.
func (h *TransferHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	transfers, err := h.transferUC.ListTransfersByWallet(r.Context(), usecase.ListTransfersByWalletInput{
		WalletID: walletID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransfersResponse{
		Transfers: dto.TransfersFromDomain(transfers),
		Total:     int64(len(transfers)),
	})
}
