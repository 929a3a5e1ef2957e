// Package eligibility evaluates a loan request against projected revenue and
// pledged collateral. Nothing here touches storage.
package eligibility

import (
	"github.com/shopspring/decimal"

	"tuka-portal/internal/domain/loan"
)

type Reason string

const (
	ReasonInsufficientRevenue    Reason = "insufficient_revenue"
	ReasonInsufficientCollateral Reason = "insufficient_collateral"
	ReasonOK                     Reason = "ok"
)

var messages = map[Reason]string{
	ReasonInsufficientRevenue:    "Projected revenue does not cover the total due. Please lower the amount.",
	ReasonInsufficientCollateral: "Insufficient collateral. Collateral must cover the total due plus a 10% buffer.",
	ReasonOK:                     "You are eligible for this loan.",
}

// rates[i] is the flat interest rate for a period of i+1 units.
var rates = []decimal.Decimal{
	decimal.RequireFromString("0.15"),
	decimal.RequireFromString("0.20"),
	decimal.RequireFromString("0.35"),
	decimal.RequireFromString("0.40"),
	decimal.RequireFromString("0.55"),
	decimal.RequireFromString("0.60"),
	decimal.RequireFromString("0.75"),
	decimal.RequireFromString("0.80"),
	decimal.RequireFromString("0.95"),
	decimal.RequireFromString("1.00"),
	decimal.RequireFromString("1.15"),
	decimal.RequireFromString("1.20"),
}

var (
	collateralBuffer = decimal.RequireFromString("1.10")
	weeksPerMonth    = decimal.NewFromInt(4)
)

// Rate returns the scheduled rate for period, or zero outside 1..12.
func Rate(period int) decimal.Decimal {
	if period < 1 || period > len(rates) {
		return decimal.Zero
	}
	return rates[period-1]
}

type Input struct {
	Cadence         loan.Cadence
	Period          int
	Revenue         decimal.Decimal
	Amount          decimal.Decimal
	CollateralValue decimal.Decimal
}

type Result struct {
	Eligible           bool            `json:"eligible"`
	Rate               decimal.Decimal `json:"rate"`
	Interest           decimal.Decimal `json:"interest"`
	TotalDue           decimal.Decimal `json:"total_due"`
	ProjectedRevenue   decimal.Decimal `json:"projected_revenue"`
	RequiredCollateral decimal.Decimal `json:"required_collateral"`
	Reason             Reason          `json:"reason"`
	Message            string          `json:"message"`
}

// Evaluate applies the revenue check first, then the collateral check.
func Evaluate(in Input) Result {
	rate := Rate(in.Period)
	interest := in.Amount.Mul(rate)
	totalDue := in.Amount.Add(interest)

	period := decimal.NewFromInt(int64(in.Period))
	var projected decimal.Decimal
	if in.Cadence == loan.CadenceWeekly {
		projected = in.Revenue.Mul(period)
	} else {
		projected = in.Revenue.Mul(period.Div(weeksPerMonth))
	}
	required := totalDue.Mul(collateralBuffer)

	res := Result{
		Rate:               rate,
		Interest:           interest.Round(2),
		TotalDue:           totalDue.Round(2),
		ProjectedRevenue:   projected.Round(2),
		RequiredCollateral: required.Round(2),
	}
	switch {
	case projected.LessThan(totalDue):
		res.Reason = ReasonInsufficientRevenue
	case in.CollateralValue.LessThan(required):
		res.Reason = ReasonInsufficientCollateral
	default:
		res.Reason = ReasonOK
		res.Eligible = true
	}
	res.Message = messages[res.Reason]
	return res
}
