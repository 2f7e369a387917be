package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cankurt/chatcore/internal/app/models/dto"
)

// BindJSON binds and validates a JSON request body, writing a 400 response
// on failure. Returns false when the request was rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(validationErrs[0])).
				WithField(validationErrs[0].Field())
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return false
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters, writing a 400 response on
// failure. Returns false when the request was rejected.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(validationErrs[0])).
				WithField(validationErrs[0].Field())
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return false
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
