package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates operational endpoints behind a static token compared
// in constant time. An empty configured token disables the endpoints
// entirely rather than leaving them open.
func RequireAdmin(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Token")
		if adminToken == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}
