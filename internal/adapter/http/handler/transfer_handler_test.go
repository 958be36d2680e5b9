package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type transferServiceStub struct {
	transferFn      func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	safeTransferFn  func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	forceTransferFn func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	getFn           func(ctx context.Context, id string) (*domain.Transfer, error)
	listFn          func(ctx context.Context, input usecase.ListTransfersByWalletInput) ([]*domain.Transfer, error)
}

func (s *transferServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
	return s.transferFn(ctx, input)
}

func (s *transferServiceStub) SafeTransfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
	return s.safeTransferFn(ctx, input)
}

func (s *transferServiceStub) ForceTransfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
	return s.forceTransferFn(ctx, input)
}

func (s *transferServiceStub) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.getFn(ctx, id)
}

func (s *transferServiceStub) ListTransfersByWallet(ctx context.Context, input usecase.ListTransfersByWalletInput) ([]*domain.Transfer, error) {
	return s.listFn(ctx, input)
}

func TestTransferHandler_Create_Success(t *testing.T) {
	transfer := &domain.Transfer{ID: "tr-1", FromWalletID: "w-1", ToWalletID: "w-2", Status: domain.TransferStatusProcessed}
	var captured usecase.TransferInput

	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
			captured = input
			return transfer, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromWalletID: "w-1",
		ToWalletID:   "w-2",
		Amount:       "100",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.FromWalletID != "w-1" || captured.ToWalletID != "w-2" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected amount 100, got %s", captured.Amount)
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "tr-1" {
		t.Fatalf("expected transfer ID tr-1, got %s", resp.ID)
	}
}

func TestTransferHandler_Create_SafeModeNilTransfer(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
			t.Fatal("strict Transfer should not be called")
			return nil, nil
		},
		safeTransferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromWalletID: "w-1",
		ToWalletID:   "w-2",
		Amount:       "100",
		Mode:         "safe",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for suppressed transfer, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_ForceMode(t *testing.T) {
	transfer := &domain.Transfer{ID: "tr-2", Status: domain.TransferStatusProcessed}

	handler := NewTransferHandler(&transferServiceStub{
		forceTransferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
			return transfer, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromWalletID: "w-1",
		ToWalletID:   "w-2",
		Amount:       "100",
		Mode:         "force",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_UnknownMode(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromWalletID: "w-1",
		ToWalletID:   "w-2",
		Amount:       "100",
		Mode:         "yolo",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", rec.Code)
	}
}

func TestTransferHandler_Create_InsufficientFunds(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error) {
			return nil, domain.ErrBalanceIsEmpty
		},
	})

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromWalletID: "w-1",
		ToWalletID:   "w-2",
		Amount:       "100",
	})

	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransferHandler_Get_LockContention(t *testing.T) {
	handler := NewTransferHandler(&transferServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Transfer, error) {
			return nil, domain.ErrLockContention
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/transfers/tr-1", nil), "id", "tr-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for lock contention, got %d", rec.Code)
	}
}
