// Package format renders prices and percentages the way Indian investors
// read them: ₹12,34,567.89 rather than ₹1,234,567.89.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// INR formats amount with the rupee sign, Indian digit grouping (last three
// digits, then groups of two) and exactly two decimals, rounding half away
// from zero.
func INR(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	out := "₹" + groupIndian(intPart) + "." + frac
	if amount.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

// Number formats amount like INR without the rupee sign.
func Number(amount decimal.Decimal) string {
	return strings.Replace(INR(amount), "₹", "", 1)
}

// groupIndian inserts separators into a string of digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	result := digits[len(digits)-3:]
	remaining := digits[:len(digits)-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if remaining != "" {
		result = remaining + "," + result
	}
	return result
}

// Percent formats the magnitude of pct, as shown next to an up/down arrow.
// e.g. -0.5 → "0.5%"
func Percent(pct float64) string {
	return trimFloat(math.Abs(pct)) + "%"
}

// SignedPercent formats pct with an explicit sign and two decimals.
// e.g. 2.3 → "+2.30%", -1.1 → "-1.10%"
func SignedPercent(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// Score formats an AI score with at most one decimal.
func Score(score float64) string {
	return trimFloat(math.Round(score*10) / 10)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
