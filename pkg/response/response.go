package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
)

// OK sends a success payload wrapped in the {"success": true, ...} envelope the
// registration frontend expects.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, body)
}

// Error converts the error to the common failure envelope. Unexpected errors
// surface as a 500 with a detail string, business errors keep their message.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	if appErr.Status >= http.StatusInternalServerError {
		detail := appErr.Message
		if appErr.Err != nil {
			detail = appErr.Err.Error()
		}
		c.JSON(appErr.Status, gin.H{"error": "Internal server error", "details": detail})
		return
	}
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

// Unauthenticated reports a missing or invalid credential along with the
// login-page redirect hint.
func Unauthenticated(c *gin.Context, redirectURL string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusUnauthorized, gin.H{
		"success":  false,
		"message":  "Token expired. Redirecting to login...",
		"redirect": redirectURL,
	})
}

// MethodNotAllowed reports a transport-level method violation.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
