package api

import (
	"encoding/json" // Event record decoding
	"io"            // Stream writer
	"net/http"      // HTTP status codes
	"slices"        // Table lookup
	"strings"       // Query parsing

	"ejn_hub/internal/domain"   // Importing domain models
	"ejn_hub/internal/realtime" // Change feed

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// eventRecipients are the fields that decide who may see a change
type eventRecipients struct {
	UserID     string `json:"userId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

// eventVisibleTo filters the shared feed down to what viewer could read through the API
func eventVisibleTo(ev realtime.Event, viewer domain.User) bool {
	switch ev.Table {
	case realtime.TablePosts:
		return true
	case realtime.TableNotifications:
		var r eventRecipients
		if err := json.Unmarshal(ev.Record, &r); err != nil || r.UserID == "" {
			return false
		}
		return domain.Notification{UserID: r.UserID}.VisibleTo(viewer)
	case realtime.TableChat:
		var r eventRecipients
		if err := json.Unmarshal(ev.Record, &r); err != nil {
			return false
		}
		return r.SenderID == viewer.ID || r.ReceiverID == viewer.ID
	}
	return false
}

// RealtimeHandler streams change events as server-sent events (?tables=a,b)
func RealtimeHandler(broker *realtime.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables := realtime.Tables
		if q := c.Query("tables"); q != "" {
			tables = strings.Split(q, ",")
			for _, t := range tables {
				if !slices.Contains(realtime.Tables, t) {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown table " + t})
					return
				}
			}
		}
		ctx := c.Request.Context()
		sub, err := broker.Subscribe(ctx, tables...)
		if err != nil {
			logrus.WithFields(logrus.Fields{"tables": tables, "error": err.Error()}).Error("Realtime subscribe failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Realtime feed unavailable"})
			return
		}
		user := currentUser(c)
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.Stream(func(w io.Writer) bool {
			ev, ok := <-sub.Events()
			if !ok {
				return false // Client gone or Redis closed the subscription
			}
			if eventVisibleTo(ev, user) {
				c.SSEvent("change", ev)
			}
			return true
		})
	}
}
