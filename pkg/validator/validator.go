package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Enum is implemented by closed variant types such as roles and reaction types.
type Enum interface {
	IsValid() bool
}

// Register installs the custom tags on gin's validator engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		return err
	}
	return v.RegisterValidation("phone", validatePhone)
}

func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.CanInterface() {
		if e, ok := field.Interface().(Enum); ok {
			return e.IsValid()
		}
	}
	if field.CanAddr() {
		if e, ok := field.Addr().Interface().(Enum); ok {
			return e.IsValid()
		}
	}
	return false
}

// validatePhone accepts up to ten digits; empty values are left to "required".
func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if len(phone) > 10 {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "enum":
		return fmt.Sprintf("%s has an unknown value", field)
	case "phone":
		return fmt.Sprintf("%s must be at most 10 digits", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":   "Username",
		"Email":      "Email",
		"Password":   "Password",
		"Role":       "Role",
		"FirstName":  "First name",
		"LastName":   "Last name",
		"Phone":      "Phone",
		"QuestionID": "Question",
		"ChoiceID":   "Choice",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
