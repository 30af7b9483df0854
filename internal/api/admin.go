package api

import (
	"context"  // Context for loaders
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/hub"    // Dashboard aggregation
	"ejn_hub/internal/store"  // Data layer
	"ejn_hub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/sync/errgroup"   // Concurrent loads
)

// DashboardHandler returns the admin overview, cached in Redis
func DashboardHandler(st *store.Store, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		dash, err := cached(c.Request.Context(), rdb, utils.CacheKeyDashboard, ttl, func(ctx context.Context) (hub.Dashboard, error) {
			var (
				users       []domain.User
				submissions []domain.Submission
				redemptions []domain.Redemption
				feedbacks   []domain.AnonymousFeedback
			)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) { users, err = st.ListProfiles(ctx); return })
			g.Go(func() (err error) { submissions, err = st.ListSubmissions(ctx, ""); return })
			g.Go(func() (err error) { redemptions, err = st.ListRedemptions(ctx, ""); return })
			g.Go(func() (err error) { feedbacks, err = st.ListFeedback(ctx); return })
			if err := g.Wait(); err != nil {
				return hub.Dashboard{}, err
			}
			return hub.BuildDashboard(users, submissions, redemptions, feedbacks), nil
		})
		if err != nil {
			respondStoreError(c, err, "load dashboard")
			return
		}
		c.JSON(http.StatusOK, dash)
	}
}

// UserAdminResponse is a user as listed for admins
type UserAdminResponse struct {
	ID               string      `json:"id"`               // User ID
	Name             string      `json:"name"`             // Display name
	Email            string      `json:"email"`            // Login email
	Role             domain.Role `json:"role"`             // User role
	Team             string      `json:"team"`             // Team name
	Points           int         `json:"points"`           // Spendable balance
	TotalAccumulated int         `json:"totalAccumulated"` // Lifetime points
	Level            string      `json:"level"`            // Level name
	IsBlocked        bool        `json:"isBlocked"`        // Blocked flag
}

// ListUsersHandler returns a page of users (?page=&page_size=)
func ListUsersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		users, total, err := st.PageProfiles(c.Request.Context(), offset, pageSize)
		if err != nil {
			respondStoreError(c, err, "fetch users")
			return
		}
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:               u.ID,
				Name:             u.Name,
				Email:            u.Email,
				Role:             u.Role,
				Team:             u.Team,
				Points:           u.Points,
				TotalAccumulated: u.TotalAccumulated,
				Level:            hub.LevelFor(u.TotalAccumulated).Name,
				IsBlocked:        u.IsBlocked,
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       resp,                                   // List of users
			"page":        page,                                   // Current page
			"page_size":   pageSize,                               // Page size
			"total":       total,                                  // Total number of users
			"total_pages": (int(total) + pageSize - 1) / pageSize, // Total pages
		})
	}
}

// AccessRequest changes a user's role or block flag
type AccessRequest struct {
	Role      *domain.Role `json:"role"`
	IsBlocked *bool        `json:"isBlocked"`
}

// UpdateAccessHandler promotes, demotes, blocks or unblocks a user
func UpdateAccessHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AccessRequest
		if err := c.ShouldBindJSON(&req); err != nil || (req.Role == nil && req.IsBlocked == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		admin := currentUser(c)
		if c.Param("id") == admin.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admins cannot change their own access"})
			return
		}
		if err := st.SetAccess(c.Request.Context(), c.Param("id"), req.Role, req.IsBlocked); err != nil {
			respondStoreError(c, err, "update access")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
		logrus.WithFields(logrus.Fields{
			"user_id":  c.Param("id"),
			"role":     req.Role,
			"blocked":  req.IsBlocked,
			"admin_id": admin.ID,
		}).Info("User access changed")
		c.Status(http.StatusNoContent)
	}
}
