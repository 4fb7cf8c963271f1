package utils

import (
	"encoding/hex"
	"strings"
)

// Ledger currency codes longer than three characters arrive as a 160-bit hex
// blob. Decoding yields a printable symbol only when the payload is a short
// alphanumeric token; anything else keeps the raw code so a malformed blob can
// never break balance aggregation.
const encodedCurrencyLen = 40

// maxDecodedSymbolLen bounds what still counts as a human-readable ticker.
const maxDecodedSymbolLen = 12

// DecodeCurrencyCode converts an encoded ledger currency code into a printable
// symbol. Standard short codes ("USD", "EUR") pass through untouched.
func DecodeCurrencyCode(code string) string {
	if len(code) != encodedCurrencyLen {
		return code
	}

	raw, err := hex.DecodeString(code)
	if err != nil {
		return code
	}

	trimmed := strings.TrimRight(string(raw), "\x00")
	if !isShortAlnumToken(trimmed) {
		return code
	}
	return trimmed
}

func isShortAlnumToken(s string) bool {
	if len(s) == 0 || len(s) > maxDecodedSymbolLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
