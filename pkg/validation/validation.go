// Package validation wraps go-playground/validator with the portal's custom
// tags and turns failures into field level AppErrors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "hotelbox/pkg/errors"
	"hotelbox/pkg/sanitizer"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type Validator struct {
	validate *validator.Validate
	region   string
}

// New registers the "phone" tag, which accepts numbers that parse in region.
func New(region string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return sanitizer.NormalizePhone(fl.Field().String(), region) != ""
	})

	return &Validator{validate: v, region: region}
}

func (v *Validator) Region() string {
	return v.region
}

// Struct validates s and returns a Validation AppError with per-field details.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.InvalidInput(err.Error())
	}
	return Failed(translate(validationErrs))
}

// Failed converts hand-written rule violations into the same AppError shape.
func Failed(errs ValidationErrors) error {
	details := make(map[string]any, len(errs))
	for _, e := range errs {
		details[e.Field] = e.Message
	}
	return apperrors.Validation("Validation failed", details)
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   err.Field(),
			Message: message(err),
		})
	}
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "min":
		return "must be at least " + err.Param() + " characters"
	case "max":
		return "must be at most " + err.Param() + " characters"
	case "oneof":
		return "must be one of: " + err.Param()
	case "eqfield":
		return "must match " + strings.ToLower(err.Param())
	case "alphanum":
		return "must contain only letters and digits"
	}
	return "is invalid (" + err.Tag() + ")"
}
