// Package money holds the amount parsing and repayment arithmetic shared by
// the loan submission path and the eligibility evaluator.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRate is applied when an application carries no rate of its own.
var DefaultRate = decimal.RequireFromString("0.30")

// ParseAmount accepts user-typed amounts such as "1,500", "K 2 000.50" or
// "ZMW10,000" and returns a non-negative value. Anything unparsable is zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0 && i < len(raw)-1:
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// TotalRepayment returns amount × (1 + rate) rounded to cents.
func TotalRepayment(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(rate)).Round(2)
}

// RateOrDefault returns rate unless it is zero or negative.
func RateOrDefault(rate float64) decimal.Decimal {
	if rate <= 0 {
		return DefaultRate
	}
	return decimal.NewFromFloat(rate)
}
