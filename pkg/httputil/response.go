package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/careportal/pkg/errors"
)

// StatusCode returns the HTTP status for err. Errors that are not AppErrors
// are internal.
func StatusCode(err error) int {
	if appErr, ok := errors.As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// RespondWithError writes err as a plain-text body. Client errors carry the
// AppError message; server errors only the status text.
func RespondWithError(c *gin.Context, err error) {
	status := StatusCode(err)
	message := http.StatusText(status)
	if appErr, ok := errors.As(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	c.String(status, message)
}

// Redirect answers a form post with 302 to path.
func Redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
}
