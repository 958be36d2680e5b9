package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAmountInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBalanceIsEmpty):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidHolderRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDecimalPlaces):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMetadataTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPagination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLockContention):
		// Retryable: the row lock wait timed out under contention.
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseBoolQuery parses a boolean query parameter, absent meaning false.
func parseBoolQuery(r *http.Request, key string) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return b
}
