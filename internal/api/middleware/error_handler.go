package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voicescribe/internal/api/errors"
)

// ErrorHandler recovers from panics and answers with a generic internal
// error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		var apiErr *errors.APIError
		switch err := recovered.(type) {
		case *errors.APIError:
			copied := *err
			apiErr = &copied
		case error:
			logger.Error("Internal server error",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			apiErr = errors.NewInternalError("Internal server error")
		default:
			logger.Error("Unknown panic occurred",
				zap.Any("recovered", recovered),
				zap.String("request_id", requestID),
			)
			apiErr = errors.NewInternalError("Internal server error")
		}

		apiErr.RequestID = requestID
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as an APIError response. Domain errors are mapped
// with errors.FromError; unrecognized ones are recorded on the context for
// the access log and answered with a generic 500.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr, known := errors.FromError(err)
	if !known {
		_ = c.Error(err)
	}

	// Copy so shared error values are never mutated across requests.
	resp := *apiErr
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(resp.HTTPStatus(), &resp)
}
