package domain

import (
	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Role of a hub user
type Role string

const (
	RoleColaborador Role = "COLABORADOR" // Regular employee
	RoleAdmin       Role = "ADMIN"       // Manager
)

// User Model (the hub profile)
type User struct {
	ID                 string `gorm:"primaryKey;size:36" json:"id"`                      // Primary key (uuid)
	Name               string `gorm:"not null" json:"name"`                              // Display name
	Nickname           string `json:"nickname,omitempty"`                                // Optional nickname
	Email              string `gorm:"uniqueIndex;size:191;not null" json:"email"`        // Unique login email
	Password           string `gorm:"not null" json:"-"`                                 // Hashed password
	Phone              string `json:"phone,omitempty"`                                   // Phone number
	Bio                string `json:"bio,omitempty"`                                     // Short biography
	Role               Role   `gorm:"size:16;default:COLABORADOR" json:"role"`           // COLABORADOR or ADMIN
	Team               string `gorm:"size:64" json:"team"`                               // Team name
	Points             int    `gorm:"not null;default:0" json:"points"`                  // Spendable balance
	TotalAccumulated   int    `gorm:"not null;default:0" json:"totalAccumulated"`        // Lifetime earned, never decreases
	Status             string `gorm:"size:16;default:ACTIVE" json:"status"`              // ACTIVE or INACTIVE
	AvailabilityStatus string `gorm:"size:16;default:OFFLINE" json:"availabilityStatus"` // ONLINE or OFFLINE
	ShowOnRanking      bool   `gorm:"not null" json:"showOnRanking"`                     // Listed on the ranking
	AvatarURL          string `json:"avatarUrl,omitempty"`                               // Avatar image URL
	CoverURL           string `json:"coverUrl,omitempty"`                                // Cover image URL
	IsBlocked          bool   `gorm:"not null;default:false" json:"isBlocked,omitempty"` // Blocked by an admin
}

// TableName keeps the table name used by the hub
func (User) TableName() string { return "profiles" }

// BeforeCreate assigns a uuid when none was set
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user is a manager
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
