package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommunityPost Model
type CommunityPost struct {
	ID         string             `gorm:"primaryKey;size:36" json:"id"`
	UserID     string             `gorm:"size:36;index;not null" json:"userId"`
	UserName   string             `json:"userName"`
	UserAvatar string             `json:"userAvatar,omitempty"`
	Content    string             `gorm:"not null" json:"content"`
	ImageURL   string             `json:"imageUrl,omitempty"`
	Likes      []PostLike         `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Comments   []CommunityComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt  time.Time          `json:"createdAt"`
}

func (p *CommunityPost) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// LikedBy returns the ids of the users who liked the post
func (p CommunityPost) LikedBy() []string {
	ids := make([]string, 0, len(p.Likes))
	for _, l := range p.Likes {
		ids = append(ids, l.UserID)
	}
	return ids
}

// MarshalJSON renders likes as the list of user ids
func (p CommunityPost) MarshalJSON() ([]byte, error) {
	type alias CommunityPost
	return json.Marshal(struct {
		alias
		LikedBy []string `json:"likes"`
	}{alias(p), p.LikedBy()})
}

// PostLike Model. The composite key makes a second like by the same user a duplicate.
type PostLike struct {
	PostID    string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

// CommunityComment Model
type CommunityComment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PostID     string    `gorm:"size:36;index;not null" json:"postId"`
	UserID     string    `gorm:"size:36;not null" json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Text       string    `gorm:"not null" json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *CommunityComment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ChatMessage Model. A collaborator always talks to a manager and vice versa.
type ChatMessage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID    string    `gorm:"size:36;index;not null" json:"senderId"`
	SenderName  string    `json:"senderName"`
	ReceiverID  string    `gorm:"size:36;index;not null" json:"receiverId"`
	Text        string    `gorm:"not null" json:"text"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	TaskID      string    `gorm:"size:36" json:"taskId,omitempty"`
	IsAutoReply bool      `json:"isAutoReply,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (m *ChatMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
