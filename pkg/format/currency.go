// Package format renders amounts for reports.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a whole-yen string with a currency sign and thousands
// separators (e.g., "-¥1,234,567"). Amounts are rounded half away from zero.
func Currency(amount float64) string {
	formatted := NumericCurrency(amount)
	if strings.HasPrefix(formatted, "-") {
		return "-¥" + formatted[1:]
	}
	return "¥" + formatted
}

// NumericCurrency returns a whole-yen string without a currency symbol but
// with separators (e.g., "-1,234,567").
func NumericCurrency(amount float64) string {
	rounded := RoundYen(amount)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + groupThousands(rounded.Abs().String())
}

// RoundYen rounds an amount to whole yen.
func RoundYen(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(0)
}

// Percent formats an annual rate with up to three decimals (e.g., "3.5%").
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).Round(3).String() + "%"
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
