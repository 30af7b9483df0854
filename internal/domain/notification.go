package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel recipients of a notification
const (
	NotifyAll   = "ALL"   // Every user
	NotifyAdmin = "ADMIN" // Every admin
)

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationTaskNew      NotificationType = "TASK_NEW"
	NotificationTaskApproved NotificationType = "TASK_APPROVED"
	NotificationTaskRejected NotificationType = "TASK_REJECTED"
	NotificationRewardReady  NotificationType = "REWARD_READY"
	NotificationChatMessage  NotificationType = "CHAT_MESSAGE"
)

// Notification Model. Rows are only ever marked read, never deleted.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;index;not null" json:"userId"` // Recipient id, ALL or ADMIN
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `gorm:"size:32" json:"type"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	Link      string           `json:"link,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// VisibleTo reports whether the viewer receives the notification
func (n Notification) VisibleTo(viewer User) bool {
	return n.UserID == viewer.ID || n.UserID == NotifyAll || (viewer.IsAdmin() && n.UserID == NotifyAdmin)
}
