// Package validation holds the request rules shared by the HTTP layer and
// the services, built on go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/you/foodauth/domain"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidPhone reports whether s looks like an E.164 number
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Register adds the "phone" and "role" tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Struct validates s and converts failures to domain.ErrValidation
func Struct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return Wrap(err)
}

// Wrap turns validator errors into a readable domain.ErrValidation. Other
// errors pass through unchanged.
func Wrap(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return fmt.Sprintf("%s is required when %s is missing", field, strings.ToLower(fe.Param()))
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "phone":
		return field + " must be a phone number like +15551234567"
	case "role":
		return field + " must be a known role"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
