package utils

import (
	"os"
	"strings"
	"unicode"
)

// defaultCountryCode is the international dialing code used when a number
// arrives in local trunk format. Ecuador unless overridden.
const defaultCountryCode = "593"

// CountryCode returns the configured international dialing code.
func CountryCode() string {
	if cc := strings.TrimSpace(os.Getenv("DEFAULT_COUNTRY_CODE")); cc != "" {
		return cc
	}
	return defaultCountryCode
}

// NormalizePhone converts a local-format phone number to international
// dialing format on a best-effort basis. It never fails: anything it does
// not recognize is returned untouched, dialability is the carrier's
// problem.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	ds := digits.String()
	if ds == "" {
		return raw
	}

	cc := CountryCode()
	if strings.HasPrefix(ds, "0") {
		return "+" + cc + ds[1:]
	}
	if strings.HasPrefix(ds, cc) {
		return "+" + ds
	}
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	return raw
}

// NormalizeDigit reduces a raw DTMF payload to a single numeric character:
// whitespace trimmed, non-digits dropped, first digit kept. Anything
// without a digit normalizes to the empty string.
func NormalizeDigit(raw string) string {
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsDigit(r) {
			return string(r)
		}
	}
	return ""
}
