package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamAll targets a task at every team
const TeamAll = "TODOS"

// Status tags a task can carry
const (
	TagPending    = "PENDENTE"
	TagApproved   = "APROVADO"
	TagUrgent     = "URGENTE"
	TagProduction = "EM PRODUÇÃO"
	TagChange     = "ALTERAÇÃO"
	TagFinished   = "FINALIZADO"
)

// Task Model (a "missão")
type Task struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `json:"description"`
	Category          string     `gorm:"size:64" json:"category"`
	TargetTeam        string     `gorm:"size:64;default:TODOS" json:"targetTeam"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	ReferenceLinks    string     `json:"referenceLinks,omitempty"` // Newline separated
	Points            int        `gorm:"not null;default:0" json:"points"`
	Difficulty        string     `gorm:"size:16;default:EASY" json:"difficulty"` // EASY, MEDIUM, HARD
	Recurrence        string     `gorm:"size:16;default:ONCE" json:"recurrence"` // ONCE, DAILY, WEEKLY, MONTHLY
	EvidenceRequired  bool       `json:"evidenceRequired"`
	StatusTag         string     `gorm:"size:32;default:PENDENTE" json:"statusTag"`
	ResponsibleUserID string     `gorm:"size:36" json:"responsibleUserId,omitempty"`
	CreatorID         string     `gorm:"size:36" json:"creatorId"`
	CreatorName       string     `json:"creatorName"`
	CreatorTeam       string     `json:"creatorTeam"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SubmissionStatus is the review state of a task submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Submission Model: evidence that a user completed a task
type Submission struct {
	ID            string           `gorm:"primaryKey;size:36" json:"id"`
	TaskID        string           `gorm:"size:36;index;not null" json:"taskId"`
	UserID        string           `gorm:"size:36;index;not null" json:"userId"`
	UserName      string           `json:"userName"`
	TaskTitle     string           `json:"taskTitle"`
	Evidence      string           `json:"evidence"`
	Status        SubmissionStatus `gorm:"size:16;default:PENDING" json:"status"`
	PointsAwarded int              `json:"pointsAwarded"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
