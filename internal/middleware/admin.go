package middleware

import (
	"context"  // Context for profile lookups
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/store"  // Data layer

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProfileLoader reads the authenticated user's profile
type ProfileLoader interface {
	GetProfile(ctx context.Context, userID string) (domain.User, error)
}

// LoadUserMiddleware reads the user's profile from the database on each request,
// so role and block changes apply immediately
func LoadUserMiddleware(profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(KeyUserID) // Get userID from context
		// Check if userID exists in context
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := profiles.GetProfile(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		// Blocked users keep their data but lose access
		if user.IsBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account blocked"})
			return
		}
		c.Set(KeyUser, user) // Store user in context
		c.Next()
	}
}

// AdminOnlyMiddleware checks the loaded user's role
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		// Check if user role is admin
		if !ok || !user.IsAdmin() {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}

// CurrentUser returns the user loaded by LoadUserMiddleware
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get(KeyUser)
	if !exists {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
