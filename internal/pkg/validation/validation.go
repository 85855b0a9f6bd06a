package validation

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators attaches application-specific rules to gin's
// binding engine. Must be called once before routes are registered.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine type %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("futuredate", futureDate); err != nil {
		return fmt.Errorf("failed to register futuredate rule: %w", err)
	}

	return nil
}

// futureDate passes when the field is a time.Time strictly after now.
func futureDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}
