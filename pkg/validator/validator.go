package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Validate runs struct-tag validation over any value. Nil input is an
// error because it usually means a constructor was called with a nil config.
func Validate(i interface{}) error {
	if i == nil {
		return fmt.Errorf("data to validate is nil")
	}

	return v.Struct(i)
}
