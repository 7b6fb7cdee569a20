package http

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"loanflow/internal/domain/loan"
	"loanflow/internal/domain/repayment"
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

// uid (32-char hex) or loan number (digits)
var reLoanRef = regexp.MustCompile(`^([a-f0-9]{32}|[0-9]{6,32})$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("loanref", func(fl validator.FieldLevel) bool {
		return reLoanRef.MatchString(fl.Field().String())
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	_ = v.RegisterValidation("paytype", func(fl validator.FieldLevel) bool {
		return repayment.Type(strings.ToLower(fl.Field().String())).Valid()
	})
	// empty means the default option
	_ = v.RegisterValidation("payoption", func(fl validator.FieldLevel) bool {
		s := strings.ToLower(fl.Field().String())
		return s == "" || loan.PaymentOption(s).Valid()
	})
	_ = v.RegisterValidation("managerstatus", func(fl validator.FieldLevel) bool {
		st, ok := loan.ParseStatus(fl.Field().String())
		if !ok {
			return false
		}
		_, err := loan.ManagerAction(st)
		return err == nil
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
		case "loanref":
			out = append(out, FieldError{Field: field, Message: "must be a loan uid or loan number"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "paytype":
			out = append(out, FieldError{Field: field, Message: "must be one of monthly, full, custom"})
		case "payoption":
			out = append(out, FieldError{Field: field, Message: "must be emi or full"})
		case "managerstatus":
			out = append(out, FieldError{Field: field, Message: "must be one of Under Review, Approved, Rejected"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
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
