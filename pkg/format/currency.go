// Package format renders amounts in Indian digit grouping.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns an amount with a rupee sign and lakh/crore separators
// (e.g., "-₹12,34,567.89").
func Currency(amount float64) string {
	formatted := formatPositive(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-₹" + formatted
	}
	return "₹" + formatted
}

// NumericCurrency returns an amount with lakh/crore separators and no symbol
// (e.g., "-12,34,567.89").
func NumericCurrency(amount float64) string {
	formatted := formatPositive(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Lakhs expresses an amount in lakhs with two decimals (e.g., "12.35 L").
func Lakhs(amount float64) string {
	return fmt.Sprintf("%.2f L", amount/100000)
}

// formatPositive groups the last three integer digits, then every two.
func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var builder strings.Builder
		for i, digit := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String() + "," + tail
	}

	return intPart + "." + decPart
}
