package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func InitValidator() {
	Validate = NewValidator()
}

func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		return usernamePattern.MatchString(username) && !strings.EqualFold(username, "me")
	})

	return v
}

// ValidationErrors flattens a validator error into field-level messages.
// It returns nil when err is not a validator.ValidationErrors.
func ValidationErrors(err error) []FieldError {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}

	out := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		out = append(out, FieldError{Field: fe.Field(), Msg: fieldMessage(fe.Field(), fe.Tag(), fe.Param())})
	}
	return out
}

func fieldMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_ and cannot be \"me\"", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	default:
		return fmt.Sprintf("something wrong on %s; %s", field, tag)
	}
}
