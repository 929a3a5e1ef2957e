package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/user"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report the wire name (json, then form) instead of the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("loantype", func(fl validator.FieldLevel) bool {
		return loan.Type(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return loan.Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("cadence", func(fl validator.FieldLevel) bool {
		c := loan.Cadence(fl.Field().String())
		return c == loan.CadenceWeekly || c == loan.CadenceMonthly
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return user.Role(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "loantype":
			out = append(out, FieldError{Field: field, Message: "must be one of personal, business"})
		case "loanstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of pending, under_review, approved, rejected"})
		case "cadence":
			out = append(out, FieldError{Field: field, Message: "must be weekly or monthly"})
		case "role":
			out = append(out, FieldError{Field: field, Message: "is not a known role"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date in " + e.Param() + " format"})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must be at least " + e.Param() + " characters"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
