package book

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// FieldViolation describes one failed field constraint.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any store access when input violates
// a field constraint.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateBook checks title and price.
func ValidateBook(in BookInput) error {
	return validateStruct(in)
}

// ValidateComment checks the parent reference, text and optional page.
func ValidateComment(in CommentInput) error {
	return validateStruct(in)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = "must be provided"
		case "notblank":
			message = "must not be blank"
		case "max":
			message = fmt.Sprintf("must be at most %s characters", param)
		case "min":
			message = fmt.Sprintf("must be at least %s", param)
		case "gt":
			message = fmt.Sprintf("must be greater than %s", param)
		default:
			message = "is invalid"
		}

		out.Violations = append(out.Violations, FieldViolation{
			Field:   field,
			Message: message,
		})
	}
	return out
}
