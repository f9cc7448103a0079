package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The public API keeps the compact wire shapes of the original service:
// plain payloads on success, {"message": ...} for expected failures and
// {"error": ...} for authorization failures.

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// AbortUnauthorized is the middleware variant of Unauthorized.
func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
