package repository

import (
	"context"

	"quad/internal/cache"
	"quad/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for request likes.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, requestID uint) (liked bool, count int64, err error)
	IsLiked(ctx context.Context, userID, requestID uint) (bool, error)
	Count(ctx context.Context, requestID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the viewer's like on a request inside a single transaction
// and returns the resulting state plus the post-toggle like count. A repeat
// call restores the previous state exactly.
func (r *likeRepository) Toggle(ctx context.Context, userID, requestID uint) (bool, int64, error) {
	var liked bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.RequestLike{}).
			Where("user_id = ? AND request_id = ?", userID, requestID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Where("user_id = ? AND request_id = ?", userID, requestID).
				Delete(&models.RequestLike{}).Error; err != nil {
				return err
			}
			liked = false
		} else {
			// ON CONFLICT DO NOTHING absorbs races with a concurrent toggle.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.RequestLike{UserID: userID, RequestID: requestID}).Error; err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(&models.RequestLike{}).
			Where("request_id = ?", requestID).
			Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.Invalidate(ctx, cache.RequestKey(requestID))
	cache.InvalidateBoard(ctx)
	return liked, count, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, requestID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RequestLike{}).
		Where("user_id = ? AND request_id = ?", userID, requestID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) Count(ctx context.Context, requestID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RequestLike{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}
