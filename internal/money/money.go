// Package money converts between human-facing fractional amounts and the
// integer minor-unit representation stored on wallets. All arithmetic is
// exact: amounts are shopspring decimals backed by big.Int mantissas, so
// 32+ decimal places and 35-digit sums carry no precision loss.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// Parse parses a decimal literal. Malformed input fails with ErrAmountInvalid.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a valid decimal", domain.ErrAmountInvalid, s)
	}

	return d, nil
}

// Round rounds to places fractional digits, half away from zero
// (0.305 at 2 places rounds to 0.31, 0.304 to 0.30). This is the only
// point where precision is deliberately dropped.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// ToMinorUnits converts a fractional amount literal to an integer-valued
// minor-unit amount for a wallet with the given precision. The input is
// rounded to the wallet precision first, so repeated fractional operations
// are lossless relative to the declared precision.
func ToMinorUnits(fractional string, decimalPlaces int32) (decimal.Decimal, error) {
	d, err := Parse(fractional)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return DecimalToMinorUnits(d, decimalPlaces), nil
}

// DecimalToMinorUnits converts an already-parsed fractional amount.
func DecimalToMinorUnits(d decimal.Decimal, decimalPlaces int32) decimal.Decimal {
	return Round(d, decimalPlaces).Shift(decimalPlaces)
}

// FromMinorUnits renders a minor-unit amount as a fractional string with
// exactly decimalPlaces digits after the point. Trailing zeros are kept:
// a 32-place wallet always renders 32 fractional digits.
func FromMinorUnits(minor decimal.Decimal, decimalPlaces int32) string {
	return minor.Shift(-decimalPlaces).StringFixed(decimalPlaces)
}
