package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/lincup/pkg/helpers"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for the domain's field rules.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("pwd", passwordBytes)
		v.RegisterAlias("courseload", "oneof=Light Medium Heavy")
		v.RegisterAlias("rating", "min=1,max=5")
	}
}

// passwordBytes bounds the UTF-8 length, not the rune count: bcrypt rejects more than 72 bytes.
func passwordBytes(fl validator.FieldLevel) bool {
	n := len(fl.Field().String())
	return n >= 1 && n <= helpers.MaxPasswordBytes
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "must match " + param
	case "oneof", "courseload":
		if fe.Tag() == "courseload" {
			param = "Light Medium Heavy"
		}
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "rating":
		return "must be between 1 and 5"
	case "pwd":
		return fmt.Sprintf("must be between 1 and %d bytes", helpers.MaxPasswordBytes)
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return "must be at least " + param
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return "must be at most " + param
	case "len":
		return "must have length " + param
	case "uuid", "uuid4", "uuid7":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
