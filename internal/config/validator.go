package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers storectl-specific validation rules.
// Must be called before validating Config.
func RegisterCustomValidators(v *validator.Validate) error {
	// duration: validates Go duration strings like "10s" or "300ms"
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return fmt.Errorf("failed to register duration validator: %w", err)
	}
	return nil
}

// validateDuration reports whether the field parses as a time.Duration.
func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// Validate validates the Config using struct tags.
// Returns an error with actionable messages on failure.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// formatValidationErrors converts validator errors into actionable
// messages naming the config key and the failed rule.
func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fieldErr.Namespace())
		case "url":
			return fmt.Errorf("%s must be a valid URL, got %q", fieldErr.Namespace(), fieldErr.Value())
		case "duration":
			return fmt.Errorf("%s must be a duration like \"10s\", got %q", fieldErr.Namespace(), fieldErr.Value())
		case "min", "max":
			return fmt.Errorf("%s out of range (%s=%s), got %v",
				fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Param(), fieldErr.Value())
		default:
			return fmt.Errorf("%s failed %s validation", fieldErr.Namespace(), fieldErr.Tag())
		}
	}
	return err
}
