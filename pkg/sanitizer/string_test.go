package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Maria Silva  ", want: "Maria Silva"},
		{name: "multiple spaces between words", input: "Maria    Silva", want: "Maria Silva"},
		{name: "tabs and newlines", input: "Maria\t\nSilva", want: "Maria Silva"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve accents", input: " João  Conceição ", want: "João Conceição"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeName(got), "normalization must be idempotent")
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678901", Digits("123.456.789-01"))
	assert.Equal(t, "", Digits("abc"))
	assert.Equal(t, "", Digits(""))
	assert.Equal(t, "11987654321", Digits("(11) 98765-4321"))
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeCPF(" 123.456.789-01 "))
	assert.Equal(t, "123", NormalizeCPF("1-2-3"))
}

func TestFormatCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare digits", input: "12345678901", want: "123.456.789-01"},
		{name: "already formatted", input: "123.456.789-01", want: "123.456.789-01"},
		{name: "too short is kept raw", input: "1234", want: "1234"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCPF(tt.input))
		})
	}
}
