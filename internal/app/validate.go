package app

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mike2377/gestion-stage-sub000/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the request through the validator and converts
// field errors into the per-field details map the API returns.
func validateStruct(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return common.NewError(common.CodeInternal, "validation failed", err)
	}
	details := make(map[string]string, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details[field] = "is required"
		case "min":
			details[field] = "must be at least " + fieldError.Param()
		case "max":
			details[field] = "must be at most " + fieldError.Param()
		case "gtefield":
			details[field] = "must not be before " + strings.ToLower(fieldError.Param())
		default:
			details[field] = "is invalid"
		}
	}
	return common.NewValidationError("invalid request", details)
}
