// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with two decimals, thousands separators and
// the currency symbol in front, e.g. 1234.5 -> "€1,234.50".
func FormatMoney(amount float64, currency string) string {
	return FormatDecimal(decimal.NewFromFloat(amount), currency)
}

// FormatDecimal is FormatMoney for exact amounts.
func FormatDecimal(amount decimal.Decimal, currency string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + currency + fixed
	}
	return sign + currency + FormatNumber(n) + "." + frac
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(f*100))
}

// FormatMultiplier formats a season multiplier, e.g. 1.2 -> "×1.20".
func FormatMultiplier(m float64) string {
	return fmt.Sprintf("×%.2f", m)
}

// FormatTrips pluralizes a trip count.
func FormatTrips(n int) string {
	if n == 1 {
		return "1 trip"
	}
	return FormatNumber(int64(n)) + " trips"
}
