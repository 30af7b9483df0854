package api

import (
	"net/http" // HTTP status codes

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/store"  // Data layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// NotificationsResponse is the viewer's inbox
type NotificationsResponse struct {
	Unread        int                   `json:"unread"`
	Notifications []domain.Notification `json:"notifications"`
}

// ListNotificationsHandler returns the notifications the current user receives
func ListNotificationsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := st.ListNotifications(c.Request.Context(), currentUser(c))
		if err != nil {
			respondStoreError(c, err, "list notifications")
			return
		}
		resp := NotificationsResponse{Notifications: list}
		for _, n := range list {
			if !n.Read {
				resp.Unread++
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// MarkReadHandler marks one notification read
func MarkReadHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.MarkRead(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
			respondStoreError(c, err, "mark notification")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// MarkAllReadHandler marks every visible notification read
func MarkAllReadHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := st.MarkAllRead(c.Request.Context(), currentUser(c))
		if err != nil {
			respondStoreError(c, err, "mark notifications")
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": n})
	}
}

// NotificationRequest is an admin broadcast or direct message
type NotificationRequest struct {
	UserID  string                  `json:"userId" binding:"required"` // User id, ALL or ADMIN
	Title   string                  `json:"title" binding:"required"`
	Message string                  `json:"message"`
	Type    domain.NotificationType `json:"type"`
	Link    string                  `json:"link"`
}

// SendNotificationHandler lets admins notify a user, every admin or everyone
func SendNotificationHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.UserID != domain.NotifyAll && req.UserID != domain.NotifyAdmin {
			if _, err := st.GetProfile(c.Request.Context(), req.UserID); err != nil {
				respondStoreError(c, err, "load recipient")
				return
			}
		}
		n := domain.Notification{UserID: req.UserID, Title: req.Title, Message: req.Message, Type: req.Type, Link: req.Link}
		if err := st.Notify(c.Request.Context(), n); err != nil {
			respondStoreError(c, err, "send notification")
			return
		}
		logrus.WithFields(logrus.Fields{
			"recipient": req.UserID,
			"type":      req.Type,
			"admin_id":  currentUser(c).ID,
		}).Info("Notification sent")
		c.Status(http.StatusCreated)
	}
}
