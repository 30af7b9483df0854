package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/domain"   // Importing domain models
	"ejn_hub/internal/realtime" // Change feed

	"gorm.io/gorm" // GORM ORM library
)

// Notify stores a notification and pushes it to the change feed
func (s *Store) Notify(ctx context.Context, n domain.Notification) error {
	n.ID = ""
	n.Read = false
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return err
	}
	s.publish(ctx, realtime.TableNotifications, realtime.Insert, n)
	return nil
}

// visible scopes a query to the notifications the viewer receives
func visible(q *gorm.DB, viewer domain.User) *gorm.DB {
	recipients := []string{viewer.ID, domain.NotifyAll}
	if viewer.IsAdmin() {
		recipients = append(recipients, domain.NotifyAdmin)
	}
	return q.Where("user_id IN ?", recipients)
}

// ListNotifications returns the viewer's notifications newest first
func (s *Store) ListNotifications(ctx context.Context, viewer domain.User) ([]domain.Notification, error) {
	var out []domain.Notification
	err := visible(s.db.WithContext(ctx), viewer).Order("created_at desc").Find(&out).Error
	return out, err
}

// MarkRead flips one notification the viewer can see to read
func (s *Store) MarkRead(ctx context.Context, viewer domain.User, id string) error {
	res := visible(s.db.WithContext(ctx).Model(&domain.Notification{}), viewer).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	var n domain.Notification
	if err := s.first(ctx, &n, id); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		if !n.VisibleTo(viewer) {
			return ErrNotFound
		}
		return nil // Already read
	}
	s.publish(ctx, realtime.TableNotifications, realtime.Update, n) // Full row so subscribers can route it
	return nil
}

// MarkAllRead flips every unread notification the viewer can see
func (s *Store) MarkAllRead(ctx context.Context, viewer domain.User) (int64, error) {
	res := visible(s.db.WithContext(ctx).Model(&domain.Notification{}), viewer).
		Where(map[string]any{"read": false}).
		Update("read", true)
	return res.RowsAffected, res.Error
}
