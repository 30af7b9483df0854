package api

import (
	"net/http" // HTTP status codes
	"slices"   // Category lookup
	"strings"  // String manipulation

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/hub"    // Feedback filters and stats
	"ejn_hub/internal/store"  // Data layer
	"ejn_hub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// FeedbackRequest is an anonymous report. No author is taken from the request or the token.
type FeedbackRequest struct {
	Category       domain.FeedbackCategory `json:"category" binding:"required"`
	Subject        string                  `json:"subject" binding:"required"`
	Message        string                  `json:"message" binding:"required"`
	AttachmentLink string                  `json:"attachmentLink"`
}

// SubmitFeedbackHandler stores an anonymous report
func SubmitFeedbackHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil || !slices.Contains(domain.FeedbackCategories, req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		fb := domain.AnonymousFeedback{
			Category:       req.Category,
			Subject:        strings.TrimSpace(req.Subject),
			Message:        strings.TrimSpace(req.Message),
			AttachmentLink: req.AttachmentLink,
		}
		if err := st.CreateFeedback(c.Request.Context(), &fb); err != nil {
			respondStoreError(c, err, "submit feedback")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyDashboard)
		// Only the id and category are logged
		logrus.WithFields(logrus.Fields{
			"feedback_id": fb.ID,
			"category":    fb.Category,
		}).Info("Feedback received")
		c.JSON(http.StatusCreated, gin.H{"id": fb.ID, "status": fb.Status})
	}
}

// FeedbackListResponse is the filtered SAC inbox with stats over every report
type FeedbackListResponse struct {
	Stats     hub.FeedbackStats          `json:"stats"`
	Feedbacks []domain.AnonymousFeedback `json:"feedbacks"`
}

// ListFeedbackHandler returns reports filtered by ?category=, ?status= and ?q=
func ListFeedbackHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := st.ListFeedback(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "list feedback")
			return
		}
		filter := hub.FeedbackFilter{Category: c.Query("category"), Status: c.Query("status"), Search: c.Query("q")}
		c.JSON(http.StatusOK, FeedbackListResponse{Stats: hub.SummarizeFeedback(all), Feedbacks: filter.Apply(all)})
	}
}

// FeedbackUpdateRequest carries triage fields
type FeedbackUpdateRequest struct {
	Status          *domain.FeedbackStatus `json:"status"`
	InternalNotes   *string                `json:"internalNotes"`
	SolutionAdopted *string                `json:"solutionAdopted"`
}

// UpdateFeedbackHandler triages a report
func UpdateFeedbackHandler(st *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeedbackUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil || (req.Status != nil && !req.Status.Valid()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		fields := map[string]any{}
		setIf(fields, "status", req.Status)
		setIf(fields, "internal_notes", req.InternalNotes)
		setIf(fields, "solution_adopted", req.SolutionAdopted)
		if len(fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		fb, err := st.UpdateFeedback(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			respondStoreError(c, err, "update feedback")
			return
		}
		invalidate(c.Request.Context(), rdb, utils.CacheKeyDashboard)
		c.JSON(http.StatusOK, fb)
	}
}
