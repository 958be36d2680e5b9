package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidHolderRef     = errors.New("invalid holder reference")
	ErrInvalidDecimalPlaces = errors.New("invalid decimal places")
	ErrMetadataTooLarge     = errors.New("metadata size exceeds limit")
	ErrInvalidPagination    = errors.New("invalid pagination parameters")
)

// Validation constants
const (
	MaxHolderRefLength = 255
	MinHolderRefLength = 1
	// MaxDecimalPlaces bounds wallet precision. 64 comfortably covers
	// high-precision crypto wallets (18 for wei, 32 and beyond).
	MaxDecimalPlaces = 64
	MaxMetadataSize  = 10240 // 10KB
	MaxPageSize      = 100
	DefaultPageSize  = 20
)

// ValidateHolderRef validates the opaque holder reference.
func ValidateHolderRef(ref string) error {
	ref = strings.TrimSpace(ref)

	if len(ref) < MinHolderRefLength {
		return fmt.Errorf("%w: holder reference cannot be empty", ErrInvalidHolderRef)
	}

	if len(ref) > MaxHolderRefLength {
		return fmt.Errorf("%w: holder reference exceeds %d characters", ErrInvalidHolderRef, MaxHolderRefLength)
	}

	return nil
}

// ValidateDecimalPlaces validates a wallet precision value.
func ValidateDecimalPlaces(places int32) error {
	if places < 0 {
		return fmt.Errorf("%w: must be non-negative, got %d", ErrInvalidDecimalPlaces, places)
	}

	if places > MaxDecimalPlaces {
		return fmt.Errorf("%w: exceeds maximum of %d, got %d", ErrInvalidDecimalPlaces, MaxDecimalPlaces, places)
	}

	return nil
}

// ValidatePagination normalizes limit/offset and rejects nonsense values.
func ValidatePagination(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must be non-negative", ErrInvalidPagination)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return limit, offset, nil
}
