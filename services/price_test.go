package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"decimal comma with euro", "12,50 €", 12.50, true},
		{"narrow no-break thousands", "1\u202f234,00€", 1234.00, true},
		{"no-break thousands", "1\u00a0234,00 €", 1234.00, true},
		{"plain integer", "7€", 7, true},
		{"decimal point", " 3.99 ", 3.99, true},
		{"leading text", "dès 15,00 €", 15.00, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"no digits", "gratuit", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFindCardPrice(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"Zara S / 36 / 8 12,50 € 13,83 € incl.", 12.50, true},
		{"Jupe 8.00€", 8.00, true},
		{"Jupe 9,50\u00a0€", 9.50, true},
		{"Jupe 12 €", 0, false},
		{"no price here", 0, false},
	}

	for _, tt := range tests {
		got, ok := findCardPrice(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.InDelta(t, tt.want, got, 1e-9, tt.text)
	}
}
