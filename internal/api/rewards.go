package api

import (
	"context"  // Context for loaders
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"ejn_hub/internal/domain"  // Importing domain models
	"ejn_hub/internal/hub"     // Catalog filters
	"ejn_hub/internal/rewards" // Redemption workflow
	"ejn_hub/internal/store"   // Data layer
	"ejn_hub/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RedeemRequest carries the user's answer to the confirmation prompt
type RedeemRequest struct {
	Confirm bool `json:"confirm"` // True once the user accepted the prompt
}

// ListRewardsHandler returns the catalog, filtered by ?category= and ?q=
func ListRewardsHandler(st *store.Store, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog, err := cached(c.Request.Context(), rdb, utils.CacheKeyRewards, ttl, func(ctx context.Context) ([]domain.Reward, error) {
			return st.ListRewards(ctx)
		})
		if err != nil {
			respondStoreError(c, err, "list rewards")
			return
		}
		c.JSON(http.StatusOK, hub.FilterRewards(catalog, c.Query("category"), c.Query("q")))
	}
}

// RedeemHandler runs the redemption workflow for the current user. The request's
// confirm flag answers the confirmation prompt; without it nothing is written and
// the prompt is returned.
func RedeemHandler(wf *rewards.Workflow, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedeemRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		var prompt string
		confirm := rewards.ConfirmFunc(func(_ context.Context, p string) bool {
			prompt = p
			return req.Confirm
		})

		user := currentUser(c)
		res, err := wf.AttemptRedemption(c.Request.Context(), user.ID, c.Param("id"), confirm)
		switch {
		case errors.Is(err, rewards.ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Confirmation required", "prompt": prompt})
			return
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": rewards.FailureMessage})
			return
		}
		// Stock and balances changed
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRewards, utils.CacheKeyDashboard)
		c.JSON(http.StatusOK, res)
	}
}

// MyRedemptionsHandler returns the current user's redemption history
func MyRedemptionsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := st.ListRedemptions(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondStoreError(c, err, "list redemptions")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// RewardRequest is the admin payload for creating or editing a reward
type RewardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cost        *int    `json:"cost"`
	Stock       *int    `json:"stock"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"imageUrl"`
}

func (r RewardRequest) fields() map[string]any {
	f := map[string]any{}
	setIf(f, "name", r.Name)
	setIf(f, "description", r.Description)
	setIf(f, "cost", r.Cost)
	setIf(f, "stock", r.Stock)
	setIf(f, "category", r.Category)
	setIf(f, "image_url", r.ImageURL)
	return f
}

// CreateRewardHandler adds a reward to the catalog
func CreateRewardHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RewardRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || req.Cost == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		r := domain.Reward{Name: *req.Name, Cost: *req.Cost}
		r.Description = deref(req.Description)
		r.Stock = deref(req.Stock)
		r.Category = deref(req.Category)
		r.ImageURL = deref(req.ImageURL)
		if err := st.CreateReward(c.Request.Context(), &r); err != nil {
			if errors.Is(err, store.ErrConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cost must be positive and stock not negative"})
				return
			}
			respondStoreError(c, err, "create reward")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRewards)
		logrus.WithFields(logrus.Fields{
			"reward_id": r.ID,
			"cost":      r.Cost,
			"stock":     r.Stock,
			"admin_id":  currentUser(c).ID,
		}).Info("Reward created")
		c.JSON(http.StatusCreated, r)
	}
}

// UpdateRewardHandler edits a reward
func UpdateRewardHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RewardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if (req.Cost != nil && *req.Cost <= 0) || (req.Stock != nil && *req.Stock < 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cost must be positive and stock not negative"})
			return
		}
		fields := req.fields()
		if len(fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		if err := st.UpdateReward(c.Request.Context(), c.Param("id"), fields); err != nil {
			respondStoreError(c, err, "update reward")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRewards)
		r, err := st.GetReward(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, err, "load reward")
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// DeleteRewardHandler removes a reward; past redemptions keep their snapshot
func DeleteRewardHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.DeleteReward(c.Request.Context(), c.Param("id")); err != nil {
			respondStoreError(c, err, "delete reward")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRewards)
		c.Status(http.StatusNoContent)
	}
}

// ListAllRedemptionsHandler returns every redemption for admins
func ListAllRedemptionsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := st.ListRedemptions(c.Request.Context(), "")
		if err != nil {
			respondStoreError(c, err, "list redemptions")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// RedemptionStatusRequest moves a redemption along its lifecycle
type RedemptionStatusRequest struct {
	Status domain.RedemptionStatus `json:"status" binding:"required"`
}

// UpdateRedemptionHandler sets a redemption's status
func UpdateRedemptionHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedemptionStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		r, err := st.UpdateRedemptionStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondStoreError(c, err, "update redemption")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyDashboard)
		c.JSON(http.StatusOK, r)
	}
}
