package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// GetReward reads a reward fresh from the database
func (s *Store) GetReward(ctx context.Context, rewardID string) (domain.Reward, error) {
	var r domain.Reward
	if err := s.first(ctx, &r, rewardID); err != nil {
		return domain.Reward{}, err
	}
	return r, nil
}

// ListRewards returns the catalog ordered by cost
func (s *Store) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	var rewards []domain.Reward
	err := s.db.WithContext(ctx).Order("cost asc, name asc").Find(&rewards).Error
	return rewards, err
}

// CreateReward adds a reward to the catalog
func (s *Store) CreateReward(ctx context.Context, r *domain.Reward) error {
	if r.Stock < 0 || r.Cost <= 0 {
		return ErrConflict // Stock never negative, cost always positive
	}
	return s.db.WithContext(ctx).Create(r).Error
}

// UpdateReward writes catalog fields
func (s *Store) UpdateReward(ctx context.Context, rewardID string, fields map[string]any) error {
	if v, ok := fields["stock"].(int); ok && v < 0 {
		return ErrConflict
	}
	return s.updates(ctx, &domain.Reward{}, rewardID, fields)
}

// DeleteReward removes a reward from the catalog
func (s *Store) DeleteReward(ctx context.Context, rewardID string) error {
	return s.remove(ctx, &domain.Reward{}, rewardID)
}

// Redeem debits the user, takes one unit of stock and records the redemption in one
// transaction. Both updates are conditional on the values the caller validated, so a
// concurrent redemption or price change makes the whole unit fail with ErrConflict.
func (s *Store) Redeem(ctx context.Context, draft domain.Redemption) (domain.Redemption, error) {
	draft.ID = ""                             // Assigned on create
	draft.Status = domain.RedemptionRequested // Every redemption starts here
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Debit only if the balance still covers the cost
		res := tx.Model(&domain.User{}).
			Where("id = ? AND points >= ?", draft.UserID, draft.Cost).
			Update("points", gorm.Expr("points - ?", draft.Cost))
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return ErrConflict // Balance too low or user gone
		}
		// Take one unit only if some is left and the price did not move
		res = tx.Model(&domain.Reward{}).
			Where("id = ? AND stock > 0 AND cost = ?", draft.RewardID, draft.Cost).
			Update("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict // Out of stock or repriced; the debit rolls back
		}
		return tx.Create(&draft).Error // Commit transaction when nil
	})
	if err != nil {
		return domain.Redemption{}, err
	}
	return draft, nil
}

// ListRedemptions returns redemptions newest first; an empty userID lists everyone's
func (s *Store) ListRedemptions(ctx context.Context, userID string) ([]domain.Redemption, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if userID != "" {
		q = q.Where("user_id = ?", userID) // Collaborators see their own history
	}
	var out []domain.Redemption
	err := q.Find(&out).Error
	return out, err
}

// UpdateRedemptionStatus moves a redemption along its lifecycle
func (s *Store) UpdateRedemptionStatus(ctx context.Context, id string, status domain.RedemptionStatus) (domain.Redemption, error) {
	if !status.Valid() {
		return domain.Redemption{}, ErrConflict
	}
	if err := s.updates(ctx, &domain.Redemption{}, id, map[string]any{"status": status}); err != nil {
		return domain.Redemption{}, err
	}
	var r domain.Redemption
	err := s.first(ctx, &r, id)
	return r, err
}
