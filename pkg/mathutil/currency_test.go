package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two paise", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Round(tt.input), 0.001)
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Just below negative tolerance", -0.02, false},
		{"Large positive", 100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsZero(tt.input))
		})
	}
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"Regular division", 10, 4, 2.5},
		{"Zero denominator", 10, 0, 0},
		{"Zero numerator", 0, 5, 0},
		{"Negative values", -9, 3, -3},
		{"Overflow to infinity", math.MaxFloat64, 1e-300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeDiv(tt.numerator, tt.denominator))
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	assert.InDelta(t, 25.0, CalculatePercentage(25, 100), 1e-9)
	assert.Equal(t, 0.0, CalculatePercentage(25, 0))
	assert.InDelta(t, 22.0, ApplyPercentage(100, 22), 1e-9)
	assert.True(t, WithinTolerance(100.004, 100.0, 0.01))
	assert.False(t, WithinTolerance(100.5, 100.0, 0.01))
}
