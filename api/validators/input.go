// Package validators guards user input before it is dispatched to the store
// or the network: invalid values are rejected at the edge so no API call ever
// carries them.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Struct validates any tagged input struct and normalizes the error shape.
func Struct(input any) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

var numericInput = regexp.MustCompile(`^\d*$`)

// AcceptNumericInput reports whether a raw field edit is allowed into a
// numeric filter input. Partial values (including empty) are fine; anything
// with a non-digit character is refused outright rather than raising an error
// later in the flow.
func AcceptNumericInput(raw string) bool {
	return numericInput.MatchString(raw)
}

// SanitizeString trims whitespace and caps length.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// PriceRange rejects negative bounds and an inverted interval. Either bound
// may be nil; all violations are reported together rather than one per
// round-trip through the form.
func PriceRange(minPrice, maxPrice *float64) error {
	var errs error
	if minPrice != nil && *minPrice < 0 {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "minimum price cannot be negative").
			WithDetails(map[string]any{"field": "minPrice"}))
	}
	if maxPrice != nil && *maxPrice < 0 {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "maximum price cannot be negative").
			WithDetails(map[string]any{"field": "maxPrice"}))
	}
	if minPrice != nil && *minPrice >= 0 && maxPrice != nil && *maxPrice >= 0 && *minPrice > *maxPrice {
		errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, "minimum price exceeds maximum price").
			WithDetails(map[string]any{"minPrice": *minPrice, "maxPrice": *maxPrice}))
	}
	return errs
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}
