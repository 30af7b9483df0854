package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/domain"   // Importing domain models
	"ejn_hub/internal/realtime" // Change feed
)

// SendMessage stores a chat message and pushes it to the change feed
func (s *Store) SendMessage(ctx context.Context, m *domain.ChatMessage) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	s.publish(ctx, realtime.TableChat, realtime.Insert, m) // Routed to sender and receiver
	return nil
}

// ListMessages returns every message userID sent or received, oldest first
func (s *Store) ListMessages(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// MarkConversationRead marks messages from peer to userID as read
func (s *Store) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	return s.db.WithContext(ctx).Model(&domain.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ?", peerID, userID). // Only what the peer sent
		Where(map[string]any{"read": false}).
		Update("read", true).Error
}
