package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name; fields hidden from JSON keep the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is one failed constraint on a request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every failed constraint of one struct
type FieldErrors []FieldError

// Error implements the error interface
func (f FieldErrors) Error() string {
	messages := make([]string, len(f))
	for i, e := range f {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

// ToMap groups messages by field
func (f FieldErrors) ToMap() map[string][]string {
	out := make(map[string][]string, len(f))
	for _, e := range f {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// RegisterEnum adds a tag that accepts exactly the given values. Empty
// strings fail unless the tag is preceded by omitempty.
func RegisterEnum(tag string, values ...string) error {
	allowed := make(map[string]struct{}, len(values))
	for _, value := range values {
		allowed[value] = struct{}{}
	}
	enums[tag] = strings.Join(values, " ")
	return validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		_, ok := allowed[fl.Field().String()]
		return ok
	})
}

// enums remembers the allowed values of each registered enum tag for messages
var enums = map[string]string{}

// ValidateStruct validates a struct based on its validation tags. Constraint
// failures come back as FieldErrors.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(FieldErrors, 0, len(validationErrors))
		for _, e := range validationErrors {
			field := lowerFirst(e.Field())
			fields = append(fields, FieldError{Field: field, Message: formatFieldError(field, e)})
		}
		return fields
	}
	return err
}

// formatFieldError formats a single field validation error
func formatFieldError(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "dive":
		return fmt.Sprintf("%s contains invalid values", field)
	}
	if values, ok := enums[e.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", field, values)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
