package repository

import (
	"context"

	"quad/internal/cache"
	"quad/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HelpOfferRepository defines persistence operations for help offers.
type HelpOfferRepository interface {
	// Offer records helperID's offer on a request. Returns false when the
	// offer already existed.
	Offer(ctx context.Context, helperID, requestID uint) (bool, error)
	// Withdraw removes helperID's offer. Returns false when there was no
	// offer to remove.
	Withdraw(ctx context.Context, helperID, requestID uint) (bool, error)
	Exists(ctx context.Context, helperID, requestID uint) (bool, error)
}

type helpOfferRepository struct {
	db *gorm.DB
}

// NewHelpOfferRepository creates a new help offer repository.
func NewHelpOfferRepository(db *gorm.DB) HelpOfferRepository {
	return &helpOfferRepository{db: db}
}

func (r *helpOfferRepository) Offer(ctx context.Context, helperID, requestID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.HelpOffer{HelperID: helperID, RequestID: requestID})
	if res.Error != nil {
		return false, res.Error
	}
	created := res.RowsAffected > 0
	if created {
		cache.Invalidate(ctx, cache.RequestKey(requestID))
		cache.InvalidateBoard(ctx)
	}
	return created, nil
}

func (r *helpOfferRepository) Withdraw(ctx context.Context, helperID, requestID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("helper_id = ? AND request_id = ?", helperID, requestID).
		Delete(&models.HelpOffer{})
	if res.Error != nil {
		return false, res.Error
	}
	removed := res.RowsAffected > 0
	if removed {
		cache.Invalidate(ctx, cache.RequestKey(requestID))
		cache.InvalidateBoard(ctx)
	}
	return removed, nil
}

func (r *helpOfferRepository) Exists(ctx context.Context, helperID, requestID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.HelpOffer{}).
		Where("helper_id = ? AND request_id = ?", helperID, requestID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
