package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trunk zero becomes country code", "0991234567", "+593991234567"},
		{"trunk zero with separators", "099-123-4567", "+593991234567"},
		{"already has country code digits", "593991234567", "+593991234567"},
		{"already international", "+593991234567", "+593991234567"},
		{"foreign number untouched", "12125551234", "12125551234"},
		{"empty stays empty", "", ""},
		{"blank stays blank", "   ", "   "},
		{"no digits at all", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestNormalizePhoneCustomCountryCode(t *testing.T) {
	t.Setenv("DEFAULT_COUNTRY_CODE", "51")
	assert.Equal(t, "+51991234567", NormalizePhone("0991234567"))
}

func TestNormalizeDigit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"1\n", "1"},
		{"  1 ", "1"},
		{" 1abc", "1"},
		{"a1", "1"},
		{"22", "2"},
		{"", ""},
		{"abc", ""},
		{"#", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDigit(tt.in), "input %q", tt.in)
	}
}
