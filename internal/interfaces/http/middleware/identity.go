package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gluco/internal/shared/utils"
)

// Identity resolves the calling user from the X-User-ID header set by the
// upstream authentication proxy. Requests without it are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
