package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/gowallet/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/wallets?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/wallets?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/wallets/w-1/withdraw?force=true", nil)
	if !parseBoolQuery(req, "force") {
		t.Fatalf("expected force=true")
	}

	req = httptest.NewRequest(http.MethodPost, "/wallets/w-1/withdraw?force=nope", nil)
	if parseBoolQuery(req, "force") {
		t.Fatalf("expected malformed value to read as false")
	}

	req = httptest.NewRequest(http.MethodPost, "/wallets/w-1/withdraw", nil)
	if parseBoolQuery(req, "force") {
		t.Fatalf("expected absent value to read as false")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"wallet not found", domain.ErrWalletNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"transfer not found", domain.ErrTransferNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrAmountInvalid, http.StatusBadRequest},
		{"insufficient funds", domain.ErrBalanceIsEmpty, http.StatusBadRequest},
		{"invalid decimal places", domain.ErrInvalidDecimalPlaces, http.StatusBadRequest},
		{"lock contention", domain.ErrLockContention, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
