package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/db"     // Driver error detection
	"ejn_hub/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// CreateTask inserts a task
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// GetTask reads one task
func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	if err := s.first(ctx, &t, id); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// ListTasks returns every task
func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.db.WithContext(ctx).Order("title asc").Find(&tasks).Error
	return tasks, err
}

// UpdateTask writes task fields
func (s *Store) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	return s.updates(ctx, &domain.Task{}, id, fields)
}

// DeleteTask removes a task
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.remove(ctx, &domain.Task{}, id)
}

// CreateSubmission records evidence for a task in PENDING state
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	sub.Status = domain.SubmissionPending
	sub.PointsAwarded = 0 // Set on approval
	return s.db.WithContext(ctx).Create(sub).Error
}

// ListSubmissions returns submissions newest first; an empty userID lists everyone's
func (s *Store) ListSubmissions(ctx context.Context, userID string) ([]domain.Submission, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []domain.Submission
	err := q.Find(&out).Error
	return out, err
}

// ReviewSubmission approves or rejects a PENDING submission exactly once.
// Approval records the task's points as awarded; crediting them is the caller's job.
func (s *Store) ReviewSubmission(ctx context.Context, id string, approve bool) (domain.Submission, error) {
	var sub domain.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		fields := map[string]any{"status": domain.SubmissionRejected} // Rejection awards nothing
		if approve {
			var task domain.Task
			if err := tx.Where("id = ?", sub.TaskID).First(&task).Error; err != nil {
				if db.IsNotFound(err) {
					return ErrNotFound
				}
				return err
			}
			fields = map[string]any{"status": domain.SubmissionApproved, "points_awarded": task.Points}
		}
		res := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", id, domain.SubmissionPending). // Only a PENDING row can move
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict // Already reviewed
		}
		return tx.Where("id = ?", id).First(&sub).Error
	})
	if err != nil {
		return domain.Submission{}, err
	}
	return sub, nil
}
