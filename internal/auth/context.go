package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole returns the authenticated caller's role or empty string.
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
