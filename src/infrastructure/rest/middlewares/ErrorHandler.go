package middlewares

import (
	"errors"
	"net/http"

	domainErrors "go-mailing-api/src/domain/errors"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the last error pushed with ctx.Error when the handler wrote nothing
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			status, message := domainErrors.AppErrorToHTTP(appErr)
			c.JSON(status, gin.H{"error": message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
