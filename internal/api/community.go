package api

import (
	"context"  // Context for loaders
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Highlight window and cache TTL

	"ejn_hub/internal/domain"  // Importing domain models
	"ejn_hub/internal/hub"     // Feed and ranking views
	"ejn_hub/internal/rewards" // Coin awards
	"ejn_hub/internal/store"   // Data layer
	"ejn_hub/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// FeedResponse is the community feed with its highlighted post
type FeedResponse struct {
	Highlight *domain.CommunityPost  `json:"highlight"`
	Posts     []domain.CommunityPost `json:"posts"`
}

// FeedHandler returns every post newest first plus the highlight
func FeedHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := st.ListPosts(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "load feed")
			return
		}
		c.JSON(http.StatusOK, FeedResponse{Highlight: hub.HighlightPost(posts, time.Now()), Posts: posts})
	}
}

// PostRequest is a new community post
type PostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// CreatePostHandler publishes a post and credits its author
func CreatePostHandler(st *store.Store, coins *rewards.CoinAward, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PostRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user := currentUser(c)
		post := domain.CommunityPost{
			UserID:     user.ID,
			UserName:   user.Name,
			UserAvatar: user.AvatarURL,
			Content:    strings.TrimSpace(req.Content),
			ImageURL:   req.ImageURL,
		}
		if err := st.CreatePost(c.Request.Context(), &post); err != nil {
			respondStoreError(c, err, "create post")
			return
		}
		coins.AwardCoins(c.Request.Context(), user.ID, rewards.CoinsPerPost)
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
		c.JSON(http.StatusCreated, post)
	}
}

// LikePostHandler likes a post once and credits the post's author
func LikePostHandler(st *store.Store, coins *rewards.CoinAward, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		author, err := st.LikePost(c.Request.Context(), c.Param("id"), user.ID)
		switch {
		case errors.Is(err, store.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot like your own post"})
			return
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Post already liked"})
			return
		case err != nil:
			respondStoreError(c, err, "like post")
			return
		}
		coins.AwardCoins(c.Request.Context(), author, rewards.CoinsPerLike)
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
		logrus.WithFields(logrus.Fields{
			"post_id": c.Param("id"),
			"user_id": user.ID,
			"author":  author,
		}).Info("Post liked")
		c.Status(http.StatusNoContent)
	}
}

// CommentRequest is a comment on a post
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentHandler adds a comment and credits its author
func CommentHandler(st *store.Store, coins *rewards.CoinAward, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user := currentUser(c)
		comment := domain.CommunityComment{
			PostID:     c.Param("id"),
			UserID:     user.ID,
			UserName:   user.Name,
			UserAvatar: user.AvatarURL,
			Text:       strings.TrimSpace(req.Text),
		}
		if err := st.AddComment(c.Request.Context(), &comment); err != nil {
			respondStoreError(c, err, "add comment")
			return
		}
		coins.AwardCoins(c.Request.Context(), user.ID, rewards.CoinsPerComment)
		invalidate(c.Request.Context(), rdb, utils.CacheKeyRanking, utils.CacheKeyDashboard)
		c.JSON(http.StatusCreated, comment)
	}
}

// DeletePostHandler removes a post; authors delete their own, admins any
func DeletePostHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if err := st.DeletePost(c.Request.Context(), user, c.Param("id")); err != nil {
			respondStoreError(c, err, "delete post")
			return
		}
		logrus.WithFields(logrus.Fields{
			"post_id": c.Param("id"),
			"user_id": user.ID,
		}).Info("Post deleted")
		c.Status(http.StatusNoContent)
	}
}

// RankingHandler returns the cached ranking
func RankingHandler(st *store.Store, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ranking, err := cached(c.Request.Context(), rdb, utils.CacheKeyRanking, ttl, func(ctx context.Context) ([]hub.RankEntry, error) {
			users, err := st.ListProfiles(ctx)
			if err != nil {
				return nil, err
			}
			return hub.Ranking(users), nil
		})
		if err != nil {
			respondStoreError(c, err, "load ranking")
			return
		}
		c.JSON(http.StatusOK, ranking)
	}
}
