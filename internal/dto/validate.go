package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs struct-tag validation on a request DTO.
func Validate(i interface{}) error {
	return validate.Struct(i)
}
