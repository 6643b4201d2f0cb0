package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"voicescribe/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateQuery binds and validates query parameters
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		details := make(map[string]string)

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrs {
				field := strings.ToLower(fieldError.Field())
				switch fieldError.Tag() {
				case "min":
					details[field] = "must be at least " + fieldError.Param()
				case "max":
					details[field] = "must be at most " + fieldError.Param()
				case "oneof":
					details[field] = "must be one of: " + fieldError.Param()
				default:
					details[field] = "is invalid"
				}
			}
		} else {
			details["query"] = err.Error()
		}

		return errors.NewValidationError("Invalid query parameters", details)
	}

	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}
