package http

import (
	"errors"
	"strings"
	"testing"
)

func TestLoanRefValidation(t *testing.T) {
	cv := NewValidator()

	for _, s := range []string{strings.Repeat("a", 32), "173612345678901", "100001"} {
		if err := cv.Validate(&refParam{Ref: s}); err != nil {
			t.Fatalf("expected valid ref %q, got err: %v", s, err)
		}
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32), // uppercase is lowered by the resolver, not here
		"deadbeef",
		strings.Repeat("g", 32),
		"12345",
		"1736-1234",
	} {
		err := cv.Validate(&refParam{Ref: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if s != "" && !containsFieldMsg(fe, "Ref", "loan uid or loan number") {
			t.Fatalf("expected loanref message for %q, got: %+v", s, fe)
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1200, 999999.99} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Amount", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v", v)
		}
	}
}

func TestEnumValidations(t *testing.T) {
	type P struct {
		Type   string `validate:"paytype"`
		Option string `validate:"payoption"`
		Status string `validate:"managerstatus"`
	}
	cv := NewValidator()

	ok := []P{
		{Type: "monthly", Option: "", Status: "Approved"},
		{Type: "FULL", Option: "emi", Status: "Under Review"},
		{Type: "custom", Option: "Full", Status: "Rejected"},
	}
	for _, p := range ok {
		if err := cv.Validate(p); err != nil {
			t.Fatalf("expected %+v valid, got %v", p, err)
		}
	}

	err := cv.Validate(P{Type: "weekly", Option: "balloon", Status: "Closed"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Type", "monthly, full, custom") {
		t.Fatalf("missing paytype message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Option", "emi or full") {
		t.Fatalf("missing payoption message: %+v", fe)
	}
	if !containsFieldMsg(fe, "Status", "Under Review, Approved, Rejected") {
		t.Fatalf("missing managerstatus message: %+v", fe)
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name   string  `validate:"required"`
		Min    int     `validate:"gte=10"`
		Max    int     `validate:"lte=5"`
		Amount float64 `validate:"gt=0"`
		Email  string  `validate:"email"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Min: 9, Max: 6, Email: "nope"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	for _, want := range []struct{ field, msg string }{
		{"Name", "is required"},
		{"Min", "greater than or equal to 10"},
		{"Max", "less than or equal to 5"},
		{"Amount", "greater than 0"},
		{"Email", "valid email"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %q for %s: %+v", want.msg, want.field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
