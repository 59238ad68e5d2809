// api/middleware/error_handler.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-schemas/internal/apperrors"
	"github.com/Annany2002/nebula-schemas/internal/logger"
)

var customLog = logger.NewLogger()

// ErrorTemplate is the HTML template rendered for failed requests.
const ErrorTemplate = "error.html"

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers attach errors with c.Error; the last one decides the response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode := apperrors.GetHTTPStatus(err)

		var userMessage string
		switch {
		case apperrors.IsNotFound(err), statusCode == http.StatusRequestEntityTooLarge:
			userMessage = err.Error()
		case apperrors.IsValidation(err):
			verr, _ := apperrors.AsValidation(err)
			userMessage = verr.Message
		default:
			// Server errors are not described to the client.
			userMessage = "An unexpected internal server error occurred."
		}

		entry := customLog.WithField("request_id", c.GetString(RequestIDKey)).
			WithField("code", apperrors.GetErrorCode(err))
		if statusCode >= http.StatusInternalServerError {
			entry.Errorf("ErrorHandler: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		} else {
			entry.Warnf("ErrorHandler: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		if c.Writer.Written() {
			entry.Warn("ErrorHandler: Response already written before handling error.")
			return
		}
		c.HTML(statusCode, ErrorTemplate, gin.H{
			"Status":  statusCode,
			"Title":   http.StatusText(statusCode),
			"Message": userMessage,
		})
		c.Abort()
	}
}
