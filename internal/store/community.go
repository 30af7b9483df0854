package store

import (
	"context" // Context for DB operations

	"ejn_hub/internal/db"       // Driver error detection
	"ejn_hub/internal/domain"   // Importing domain models
	"ejn_hub/internal/realtime" // Change feed

	"gorm.io/gorm" // GORM ORM library
)

// CreatePost inserts a post and announces it on the feed
func (s *Store) CreatePost(ctx context.Context, p *domain.CommunityPost) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	s.publish(ctx, realtime.TablePosts, realtime.Insert, p)
	return nil
}

func (s *Store) postsQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Likes"). // Likes are rows keyed by post and user
		Preload("Comments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at asc") })
}

// GetPost reads one post with likes and comments
func (s *Store) GetPost(ctx context.Context, id string) (domain.CommunityPost, error) {
	var p domain.CommunityPost
	err := s.postsQuery(ctx).Where("id = ?", id).First(&p).Error
	if db.IsNotFound(err) {
		return domain.CommunityPost{}, ErrNotFound
	}
	return p, err
}

// ListPosts returns the feed newest first
func (s *Store) ListPosts(ctx context.Context) ([]domain.CommunityPost, error) {
	var posts []domain.CommunityPost
	err := s.postsQuery(ctx).Order("created_at desc").Find(&posts).Error
	return posts, err
}

// LikePost records userID's like and returns the post author. Authors cannot like
// their own post (ErrForbidden) and a second like is rejected (ErrConflict).
func (s *Store) LikePost(ctx context.Context, postID, userID string) (string, error) {
	var author string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.CommunityPost
		if err := tx.Select("id", "user_id").Where("id = ?", postID).First(&p).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if p.UserID == userID {
			return ErrForbidden // No self-likes
		}
		author = p.UserID
		if err := tx.Create(&domain.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
			if db.IsDuplicate(err) {
				return ErrConflict // Composite key rejects a second like
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.publish(ctx, realtime.TablePosts, realtime.Update, map[string]string{"id": postID, "likedBy": userID})
	return author, nil
}

// AddComment appends a comment to a post
func (s *Store) AddComment(ctx context.Context, c *domain.CommunityComment) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.CommunityPost{}).Where("id = ?", c.PostID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	s.publish(ctx, realtime.TablePosts, realtime.Update, map[string]any{"id": c.PostID, "comment": c})
	return nil
}

// DeletePost removes a post. Only its author or an admin may do so.
func (s *Store) DeletePost(ctx context.Context, actor domain.User, postID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.CommunityPost
		if err := tx.Select("id", "user_id").Where("id = ?", postID).First(&p).Error; err != nil {
			if db.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if p.UserID != actor.ID && !actor.IsAdmin() {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", postID).Delete(&domain.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&domain.CommunityComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error // Children first, then the post
	})
	if err != nil {
		return err
	}
	s.publish(ctx, realtime.TablePosts, realtime.Delete, map[string]string{"id": postID})
	return nil
}
