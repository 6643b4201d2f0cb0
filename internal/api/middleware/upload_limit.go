package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicescribe/internal/api/errors"
)

// UploadLimit caps the request body at maxBytes. Requests that announce a
// larger Content-Length are refused up front; others fail with
// *http.MaxBytesError once the handler reads past the cap.
func UploadLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			HandleError(c, errors.NewPayloadTooLargeError(maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
