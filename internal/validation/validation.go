package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates the tagged fields of a request payload.
func Struct(s any) error {
	return validate.Struct(s)
}
