package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tuka-portal/internal/domain/loan"
	"tuka-portal/internal/usecase/eligibility"
)

type EligibilityHandler struct{}

func NewEligibilityHandler() *EligibilityHandler { return &EligibilityHandler{} }

// Amounts accept JSON numbers or numeric strings.
type eligibilityReq struct {
	Cadence         string          `json:"cadence" validate:"required,cadence"`
	Period          int             `json:"period" validate:"required,gte=1"`
	Revenue         decimal.Decimal `json:"revenue"`
	Amount          decimal.Decimal `json:"amount"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
}

func (r *eligibilityReq) amountErrors() []FieldError {
	var out []FieldError
	if !r.Amount.IsPositive() {
		out = append(out, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Revenue.IsNegative() {
		out = append(out, FieldError{Field: "revenue", Message: "must not be negative"})
	}
	if r.CollateralValue.IsNegative() {
		out = append(out, FieldError{Field: "collateral_value", Message: "must not be negative"})
	}
	return out
}

// Check handles POST /finance/eligibility. Nothing is persisted.
func (h *EligibilityHandler) Check(c echo.Context) error {
	var req eligibilityReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if details := req.amountErrors(); len(details) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	}
	res := eligibility.Evaluate(eligibility.Input{
		Cadence:         loan.Cadence(req.Cadence),
		Period:          req.Period,
		Revenue:         req.Revenue,
		Amount:          req.Amount,
		CollateralValue: req.CollateralValue,
	})
	return c.JSON(http.StatusOK, res)
}
