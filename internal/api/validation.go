package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	return v
}

// maxBytes limits the encoded length of a string. bcrypt refuses input
// longer than 72 bytes, which "max" cannot express since it counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: invalid parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

// parseAndValidate decodes the JSON body into out and runs struct
// validation. An empty body decodes as an empty object so that every
// missing field is reported.
func parseAndValidate(c *fiber.Ctx, v *validator.Validate, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return newValidationError("Request body must be a valid JSON object")
		}
	}

	if err := v.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		return newValidationError(validationMessages(fieldErrs)...)
	}

	return nil
}

func validationMessages(fieldErrs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			messages = append(messages, fmt.Sprintf("Please provide a value for %q", fe.Field()))
		case "maxbytes":
			messages = append(messages, fmt.Sprintf("Please provide at most %s bytes for %q", fe.Param(), fe.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("Please provide a valid email address for %q", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("Invalid value for %q", fe.Field()))
		}
	}
	return messages
}
