package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func Test_ValueFits(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{value: "0", expected: true},
		{value: "12.5", expected: true},
		{value: "12.50000", expected: true},
		{value: "9999999999.99", expected: true},
		{value: "-3.10", expected: true},
		{value: "10.005", expected: false},
		{value: "0.004", expected: false},
		{value: "10000000000", expected: false},
		{value: "-10000000000.00", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.expected, ValueFits(decimal.RequireFromString(tc.value)))
		})
	}
}

func Test_FormatValue(t *testing.T) {
	testCases := []struct {
		value    string
		expected string
	}{
		{value: "12.5", expected: "12.50"},
		{value: "3", expected: "3.00"},
		{value: "12.50000", expected: "12.50"},
		{value: "10.005", expected: "10.005"},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatValue(decimal.RequireFromString(tc.value)))
		})
	}
}
