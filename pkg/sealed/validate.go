package sealed

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func defaultValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInstance
}

// checkPayload runs struct validation on a decoded payload. Payloads that are
// not structs carry no rules and pass.
func checkPayload(v *validator.Validate, name string, payload any) error {
	if v == nil {
		return nil
	}
	err := v.Struct(payload)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
}
