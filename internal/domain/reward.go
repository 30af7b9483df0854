package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward Model
type Reward struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`    // Primary key (uuid)
	Name        string `gorm:"not null" json:"name"`            // Reward name
	Description string `json:"description"`                     // Long description
	Cost        int    `gorm:"not null" json:"cost"`            // Points required
	Stock       int    `gorm:"not null;default:0" json:"stock"` // Remaining units, never negative
	Category    string `gorm:"size:64" json:"category"`         // Store category
	ImageURL    string `json:"imageUrl,omitempty"`              // Image URL
}

func (r *Reward) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RedemptionStatus is the lifecycle of a redemption request
type RedemptionStatus string

const (
	RedemptionRequested RedemptionStatus = "REQUESTED"
	RedemptionApproved  RedemptionStatus = "APPROVED"
	RedemptionPreparing RedemptionStatus = "PREPARING"
	RedemptionDelivered RedemptionStatus = "DELIVERED"
	RedemptionCancelled RedemptionStatus = "CANCELLED"
)

// Valid reports whether s is a known status
func (s RedemptionStatus) Valid() bool {
	switch s {
	case RedemptionRequested, RedemptionApproved, RedemptionPreparing, RedemptionDelivered, RedemptionCancelled:
		return true
	}
	return false
}

// Redemption Model. Cost and names are a snapshot taken at redemption time.
type Redemption struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	RewardID   string           `gorm:"size:36;index;not null" json:"rewardId"`
	UserID     string           `gorm:"size:36;index;not null" json:"userId"`
	UserName   string           `json:"userName"`
	RewardName string           `json:"rewardName"`
	Cost       int              `gorm:"not null" json:"cost"`
	Status     RedemptionStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func (r *Redemption) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
