package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sizopi/shared/constant"
	"sizopi/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

// Accepted layouts for facility schedules, most specific first.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
	"2006-01-02 15:04",
}

var validate *val.Validate

func validateDateOnly(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(constant.DateOnlyFormat, value)

	return err == nil
}

func validateSchedule(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := ParseSchedule(value)

	return err == nil
}

// ParseSchedule parses a facility schedule in any of the accepted layouts.
func ParseSchedule(value string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid schedule %q", value)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	err := validate.RegisterValidation("dateonly", validateDateOnly)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("schedule", validateSchedule)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)

		return ok && strings.TrimSpace(value) != ""
	})
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
