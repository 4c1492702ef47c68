package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ErrValidation is matched by *ValidationError.
var ErrValidation = errors.New("validation error")

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the structured result of a failed validation pass.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// HasField reports whether field was rejected.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NUMERIC(10,2): eight integer digits and two fraction digits.
var maxDecimal = decimal.New(1, 8)

type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.add(field, message)
	}
}

func (v *validator) name(field, value string, maxLen int) {
	switch {
	case strings.TrimSpace(value) == "":
		v.add(field, "is required")
	case utf8.RuneCountInString(value) > maxLen:
		v.add(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
}

func (v *validator) maxLen(field, value string, maxLen int) {
	v.check(utf8.RuneCountInString(value) <= maxLen, field, fmt.Sprintf("must be at most %d characters", maxLen))
}

// amount checks the shape of a NUMERIC(10,2) value.
func (v *validator) amount(field string, d decimal.Decimal) {
	if !d.Equal(d.Round(2)) {
		v.add(field, "must have at most 2 decimal places")
		return
	}
	if d.Abs().GreaterThanOrEqual(maxDecimal) {
		v.add(field, "must have at most 10 digits")
	}
}

func (v *validator) nonNegative(field string, d decimal.Decimal) {
	if d.IsNegative() {
		v.add(field, "must not be negative")
		return
	}
	v.amount(field, d)
}

func (v *validator) requiredID(field string, id int64) {
	v.check(id > 0, field, "is required")
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
