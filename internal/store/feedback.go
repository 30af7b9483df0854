package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/domain" // Importing domain models
)

// CreateFeedback stores an anonymous report as RECEIVED
func (s *Store) CreateFeedback(ctx context.Context, f *domain.AnonymousFeedback) error {
	f.Status = domain.FeedbackReceived
	f.InternalNotes = ""   // Admin-only field
	f.SolutionAdopted = "" // Admin-only field
	return s.db.WithContext(ctx).Create(f).Error
}

// ListFeedback returns every report newest first
func (s *Store) ListFeedback(ctx context.Context) ([]domain.AnonymousFeedback, error) {
	var out []domain.AnonymousFeedback
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// UpdateFeedback writes triage fields and returns the updated report
func (s *Store) UpdateFeedback(ctx context.Context, id string, fields map[string]any) (domain.AnonymousFeedback, error) {
	if st, ok := fields["status"].(domain.FeedbackStatus); ok && !st.Valid() {
		return domain.AnonymousFeedback{}, ErrConflict // Unknown status
	}
	if err := s.updates(ctx, &domain.AnonymousFeedback{}, id, fields); err != nil {
		return domain.AnonymousFeedback{}, err
	}
	var f domain.AnonymousFeedback
	err := s.first(ctx, &f, id)
	return f, err
}
