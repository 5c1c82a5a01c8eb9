package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0 ₫"},
		{500, "500 ₫"},
		{25000, "25.000 ₫"},
		{1250000, "1.250.000 ₫"},
		{-4800, "-4.800 ₫"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVND(tt.amount))
	}
}

func TestFormatTaxRate(t *testing.T) {
	assert.Equal(t, "8%", formatTaxRate(800))
	assert.Equal(t, "10%", formatTaxRate(1000))
	assert.Equal(t, "8.25%", formatTaxRate(825))
	assert.Equal(t, "0%", formatTaxRate(0))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"25000", 25000},
		{"25.000", 25000},
		{"25,000", 25000},
		{" 25 000 ₫ ", 25000},
		{"25000đ", 25000},
		{"abc", 0},
		{"", 0},
		{"-500", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePrice(tt.in), "input %q", tt.in)
	}
}
