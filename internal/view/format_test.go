package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"zero", "0", "$0.00"},
		{"whole dollars", "42", "$42.00"},
		{"cents preserved", "19.99", "$19.99"},
		{"single fraction digit padded", "7.5", "$7.50"},
		{"thousands grouped", "1299.5", "$1,299.50"},
		{"millions grouped", "2500000", "$2,500,000.00"},
		{"extra precision rounded", "10.999", "$11.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(decimal.RequireFromString(tt.price)))
		})
	}
}
