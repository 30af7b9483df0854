package store

import (
	"context" // Context for DB operations
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"ejn_hub/internal/db"     // Driver error detection
	"ejn_hub/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ErrEmailTaken is returned when registering an email already in use
var ErrEmailTaken = errors.New("email already registered")

// CreateProfile inserts a new user
func (s *Store) CreateProfile(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsDuplicate(err) {
			return ErrEmailTaken // Unique email index
		}
		return err
	}
	return nil
}

// GetProfile reads a user fresh from the database
func (s *Store) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	var u domain.User
	if err := s.first(ctx, &u, userID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// GetProfileByEmail looks a user up by login email
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if db.IsNotFound(err) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

// ListProfiles returns every user
func (s *Store) ListProfiles(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.db.WithContext(ctx).Order("name asc").Find(&users).Error
	return users, err
}

// ListManagers returns the admins a collaborator can chat with
func (s *Store) ListManagers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.db.WithContext(ctx).Where("role = ?", domain.RoleAdmin).Order("name asc").Find(&users).Error
	return users, err
}

// UpdateProfile writes profile fields. Balances cannot be changed through this path.
func (s *Store) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	for _, k := range []string{"points", "total_accumulated", "role", "password", "id"} { // Owned by other paths
		if _, ok := fields[k]; ok {
			return fmt.Errorf("field %q is not editable", k)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return s.updates(ctx, &domain.User{}, userID, fields)
}

// AddPoints credits amount to both the balance and the lifetime total in one statement
func (s *Store) AddPoints(ctx context.Context, userID string, amount int) error {
	return s.updates(ctx, &domain.User{}, userID, map[string]any{
		"points":            gorm.Expr("points + ?", amount),            // Spendable balance
		"total_accumulated": gorm.Expr("total_accumulated + ?", amount), // Lifetime total
	})
}

// PageProfiles returns one page of users ordered by name and the total count
func (s *Store) PageProfiles(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := s.db.WithContext(ctx).Order("name asc").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// SetAccess changes a user's role or block flag. Only admins reach this path.
func (s *Store) SetAccess(ctx context.Context, userID string, role *domain.Role, blocked *bool) error {
	fields := map[string]any{}
	if role != nil {
		if *role != domain.RoleAdmin && *role != domain.RoleColaborador {
			return ErrConflict // Unknown role
		}
		fields["role"] = *role
	}
	if blocked != nil {
		fields["is_blocked"] = *blocked
	}
	if len(fields) == 0 {
		return nil
	}
	return s.updates(ctx, &domain.User{}, userID, fields)
}
