package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackCategory of an anonymous report
type FeedbackCategory string

const (
	FeedbackSuggestion FeedbackCategory = "SUGGESTION"
	FeedbackCriticism  FeedbackCategory = "CRITICISM"
	FeedbackComplaint  FeedbackCategory = "COMPLAINT"
	FeedbackOther      FeedbackCategory = "OTHER"
)

// FeedbackCategories in display order
var FeedbackCategories = []FeedbackCategory{FeedbackSuggestion, FeedbackCriticism, FeedbackComplaint, FeedbackOther}

// FeedbackStatus of an anonymous report
type FeedbackStatus string

const (
	FeedbackReceived  FeedbackStatus = "RECEIVED"
	FeedbackAnalyzing FeedbackStatus = "ANALYZING"
	FeedbackSolved    FeedbackStatus = "SOLVED"
	FeedbackApplied   FeedbackStatus = "APPLIED"
	FeedbackArchived  FeedbackStatus = "ARCHIVED"
)

// Valid reports whether s is a known status
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackReceived, FeedbackAnalyzing, FeedbackSolved, FeedbackApplied, FeedbackArchived:
		return true
	}
	return false
}

// AnonymousFeedback Model. No author column exists on purpose.
type AnonymousFeedback struct {
	ID              string           `gorm:"primaryKey;size:36" json:"id"`
	Category        FeedbackCategory `gorm:"size:16;not null" json:"category"`
	Subject         string           `gorm:"not null" json:"subject"`
	Message         string           `gorm:"not null" json:"message"`
	AttachmentLink  string           `json:"attachmentLink,omitempty"`
	Status          FeedbackStatus   `gorm:"size:16;default:RECEIVED" json:"status"`
	InternalNotes   string           `json:"internalNotes,omitempty"`
	SolutionAdopted string           `json:"solutionAdopted,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func (f *AnonymousFeedback) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// TableName keeps the table name used by the hub
func (AnonymousFeedback) TableName() string { return "anonymous_feedbacks" }
