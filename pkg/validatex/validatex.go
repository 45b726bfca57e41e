// Package validatex validates request DTOs with go-playground/validator and
// turns failures into the API's validation error shape.
package validatex

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talentgrid/ctms/pkg/errx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var registry = errx.NewRegistry("VALIDATE")

var ErrInvalidPayload = registry.Register("INVALID_PAYLOAD", errx.TypeValidation, 400, "Invalid request payload")

// Struct validates s against its `validate` tags. The returned error carries
// a per-field detail map.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return registry.New(ErrInvalidPayload).WithCause(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = describe(fe)
	}
	return registry.New(ErrInvalidPayload).WithDetail("fields", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
