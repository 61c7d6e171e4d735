package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimals shown for amounts
const MoneyPrecision int32 = 2

// FormatMoney renders an amount with two decimals and thousands grouping.
// Use it for presentation only, never before aggregation.
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(MoneyPrecision)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	var b strings.Builder
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatTotals renders every field of a Totals value
func FormatTotals(t Totals) map[string]string {
	return map[string]string{
		"subtotal": FormatMoney(t.Subtotal),
		"discount": FormatMoney(t.Discount),
		"tax":      FormatMoney(t.Tax),
		"total":    FormatMoney(t.Total),
	}
}
