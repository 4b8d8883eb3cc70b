package validator

import (
	"errors"
	"fmt"

	val "github.com/go-playground/validator/v10"
)

// message turns the first failed rule into a sentence naming the JSON field.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		if text, ok := describe(fe); ok {
			return text
		}
	}

	return fieldErrors.Error()
}

func describe(fe val.FieldError) (string, bool) {
	field, param := fe.Field(), fe.Param()

	var text string

	switch fe.Tag() {
	case "required":
		text = field + " is required"
	case "notblank":
		text = field + " must not be blank"
	case "gt":
		text = fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte", "min":
		text = fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte", "max":
		text = fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		text = fmt.Sprintf("%s must be one of %s", field, param)
	case "dateonly":
		text = field + " must be a date in YYYY-MM-DD format"
	case "schedule":
		text = field + " must be a date-time such as 2024-06-01T10:00:00"
	case "email":
		text = field + " must be a valid email address"
	case "uuid":
		text = field + " must be a valid UUID"
	case "dive":
		text = field + " contains an invalid item"
	case "unique":
		text = field + " must not contain duplicates"
	default:
		return "", false
	}

	return text, true
}
