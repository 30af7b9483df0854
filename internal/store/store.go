// Package store is the gorm-backed data layer of the hub.
package store

import (
	"context" // Context for DB operations
	"errors"  // Sentinel errors

	"ejn_hub/internal/db"       // Not-found detection
	"ejn_hub/internal/realtime" // Change feed

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a conditional write matched no row
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when the actor may not change the row
	ErrForbidden = errors.New("forbidden")
)

// Publisher receives row changes for the realtime feed
type Publisher interface {
	Publish(ctx context.Context, table string, typ realtime.EventType, record any) error
}

// Store wraps the database handle and an optional change publisher
type Store struct {
	db  *gorm.DB
	pub Publisher
}

// New returns a store; pub may be nil when no realtime feed is wired
func New(db *gorm.DB, pub Publisher) *Store {
	return &Store{db: db, pub: pub}
}

// DB exposes the handle for migrations and tests
func (s *Store) DB() *gorm.DB { return s.db }

// publish is best-effort: a lost change event never fails the write that caused it
func (s *Store) publish(ctx context.Context, table string, typ realtime.EventType, record any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, table, typ, record); err != nil {
		logrus.WithFields(logrus.Fields{
			"table": table,
			"type":  typ,
			"error": err.Error(),
		}).Warn("Change event not published")
	}
}

// updates applies fields to the row with id, returning ErrNotFound when nothing matched
func (s *Store) updates(ctx context.Context, model any, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// first loads the row with id into dest, mapping a missing row to ErrNotFound
func (s *Store) first(ctx context.Context, dest any, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).First(dest).Error
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

// remove deletes the row with id, returning ErrNotFound when nothing matched
func (s *Store) remove(ctx context.Context, model any, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
