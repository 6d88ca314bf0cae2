package serverutils

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"dce-cancel-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Whitespace-only strings count as absent.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// Report fields by their wire name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return lowerCamel(fld.Name)
		}
		return name
	})

	return v
}

// ValidateRequest runs struct validation and collects every violated rule
// before returning, so callers always see the full list at once.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, violationMessage(fe))
	}
	return apperror.NewValidationError(violations...)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
