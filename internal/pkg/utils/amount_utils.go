package utils

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/domain/entity"
)

// dropsPerNative is the smallest-unit scale of the home ledger (1 XRP = 1e6 drops).
const dropsPerNative = 1_000_000

var dropsDivisor = decimal.NewFromInt(dropsPerNative)

// DropsToNative converts a smallest-unit integer string into native units.
func DropsToNative(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid drops amount %q: %w", raw, err)
	}
	return d.Div(dropsDivisor), nil
}

// NormalizeLedgerAmount converts either denomination shape of a price entry
// into native units. It returns false for empty, malformed or non-positive
// amounts; callers treat that as "this entry contributes nothing".
func NormalizeLedgerAmount(a entity.LedgerAmount) (decimal.Decimal, bool) {
	switch {
	case a.Raw != "":
		d, err := DropsToNative(a.Raw)
		if err != nil || !d.IsPositive() {
			return decimal.Zero, false
		}
		return d, true
	case a.Value != "":
		d, err := decimal.NewFromString(a.Value)
		if err != nil || !d.IsPositive() {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// MinPositiveAmount normalizes every entry and returns the smallest strictly
// positive value, or false when no entry is usable.
func MinPositiveAmount(entries []entity.LedgerAmount) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, e := range entries {
		v, ok := NormalizeLedgerAmount(e)
		if !ok {
			continue
		}
		if !found || v.LessThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// GetEnv returns the value of an environment variable or a fallback.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
