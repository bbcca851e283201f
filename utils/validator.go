package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// dateday: YYYY-MM-DD, datemonth: YYYY-MM
	_ = v.RegisterValidation("dateday", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("datemonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})

	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	// Format validation errors
	var errors []string
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errors = append(errors, field+" is required")
		case "min":
			errors = append(errors, field+" must be at least "+param+" characters")
		case "max":
			errors = append(errors, field+" must be at most "+param+" characters")
		case "email":
			errors = append(errors, field+" must be a valid email")
		case "gt":
			errors = append(errors, field+" must be greater than "+param)
		case "dateday":
			errors = append(errors, field+" must be a YYYY-MM-DD date")
		case "datemonth":
			errors = append(errors, field+" must be a YYYY-MM month")
		default:
			errors = append(errors, field+" is invalid")
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errors, ", "))
}
