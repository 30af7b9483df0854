package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ejn_hub/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the middlewares
const (
	KeyUserID = "userID" // Authenticated user id
	KeyUser   = "user"   // Loaded domain.User
)

// JWTAuthMiddleware validates JWT tokens and extracts user information
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		// EventSource cannot set headers, so the realtime stream may pass the token as a query parameter
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = c.Query("access_token")
		}
		if tokenStr == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(KeyUserID, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}
