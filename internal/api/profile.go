package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ejn_hub/internal/db"     // Duplicate key detection
	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/hub"    // Profile statistics
	"ejn_hub/internal/store"  // Data layer
	"ejn_hub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Availability states a user can toggle between
const (
	AvailabilityOnline  = "ONLINE"
	AvailabilityOffline = "OFFLINE"
)

// ProfileResponse is the current user with their counters
type ProfileResponse struct {
	User  domain.User      `json:"user"`
	Stats hub.ProfileStats `json:"stats"`
}

// GetProfileHandler returns the current user's profile and stats
func GetProfileHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		posts, err := st.ListPosts(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "load posts")
			return
		}
		subs, err := st.ListSubmissions(c.Request.Context(), user.ID)
		if err != nil {
			respondStoreError(c, err, "load submissions")
			return
		}
		c.JSON(http.StatusOK, ProfileResponse{User: user, Stats: hub.BuildProfileStats(user, posts, subs)})
	}
}

// UpdateProfileRequest lists the self-editable fields; points are not among them
type UpdateProfileRequest struct {
	Name               *string `json:"name"`
	Nickname           *string `json:"nickname"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Phone              *string `json:"phone"`
	Bio                *string `json:"bio"`
	AvatarURL          *string `json:"avatarUrl"`
	CoverURL           *string `json:"coverUrl"`
	ShowOnRanking      *bool   `json:"showOnRanking"`
	AvailabilityStatus *string `json:"availabilityStatus"`
}

// UpdateProfileHandler edits the current user's profile
func UpdateProfileHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
			return
		}
		if req.AvailabilityStatus != nil && *req.AvailabilityStatus != AvailabilityOnline && *req.AvailabilityStatus != AvailabilityOffline {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Availability must be ONLINE or OFFLINE"})
			return
		}
		if req.Email != nil {
			lower := strings.ToLower(strings.TrimSpace(*req.Email))
			req.Email = &lower
		}
		fields := map[string]any{}
		setIf(fields, "name", req.Name)
		setIf(fields, "nickname", req.Nickname)
		setIf(fields, "email", req.Email)
		setIf(fields, "phone", req.Phone)
		setIf(fields, "bio", req.Bio)
		setIf(fields, "avatar_url", req.AvatarURL)
		setIf(fields, "cover_url", req.CoverURL)
		setIf(fields, "show_on_ranking", req.ShowOnRanking)
		setIf(fields, "availability_status", req.AvailabilityStatus)

		user := currentUser(c)
		if err := st.UpdateProfile(c.Request.Context(), user.ID, fields); err != nil {
			if db.IsDuplicate(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			respondStoreError(c, err, "update profile")
			return
		}
		// Names, avatars and opt-in show up on the ranking and the dashboard
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
		updated, err := st.GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			respondStoreError(c, err, "load profile")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ToggleAvailabilityHandler flips the current user between ONLINE and OFFLINE
func ToggleAvailabilityHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		next := AvailabilityOnline
		if user.AvailabilityStatus == AvailabilityOnline {
			next = AvailabilityOffline
		}
		if err := st.UpdateProfile(c.Request.Context(), user.ID, map[string]any{"availability_status": next}); err != nil {
			respondStoreError(c, err, "update availability")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyDashboard)
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"status":  next,
		}).Info("Availability changed")
		c.JSON(http.StatusOK, gin.H{"availabilityStatus": next})
	}
}

// BootstrapHandler loads every list the hub screens need in one call
func BootstrapHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		snap, err := st.LoadSnapshot(c.Request.Context(), user)
		if err != nil {
			respondStoreError(c, err, "load hub")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "data": snap})
	}
}
