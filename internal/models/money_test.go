package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckPrice(t *testing.T) {
	tests := []struct {
		price string
		ok    bool
	}{
		{"0", true},
		{"999.99", true},
		{"1.5", true},
		{"9999999999.99", true},
		{"-0.01", false},
		{"0.333", false},
		{"10000000000", false},
	}

	for _, tc := range tests {
		t.Run(tc.price, func(t *testing.T) {
			err := CheckPrice(decimal.RequireFromString(tc.price))
			assert.Equal(t, tc.ok, err == nil, "err=%v", err)
		})
	}
}
