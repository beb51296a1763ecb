package repository

import (
	"context"
	"errors"
	"time"

	"quad/internal/cache"
	"quad/internal/models"
	"quad/internal/observability"

	"gorm.io/gorm"
)

// ListOptions narrows and orders a board listing.
type ListOptions struct {
	// SinceHours limits results to requests created within the window.
	// Zero means no window.
	SinceHours int
	// Ascending flips the default newest-first ordering.
	Ascending bool
	Limit     int
	Offset    int
	// ViewerID scopes the liked/helped flags. Zero means anonymous.
	ViewerID uint
}

// RequestRepository defines persistence operations for board requests.
type RequestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Request, error)
	ExistsForCreator(ctx context.Context, creatorID uint) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*models.Request, error)
	Count(ctx context.Context) (int64, error)
	DeleteOwned(ctx context.Context, id, creatorID uint) (bool, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *models.Request) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(req).Error
	observability.ObserveQuery("create", "requests", start)
	if err != nil {
		// The unique index on creator_id backs the one-request-per-user
		// invariant under concurrent creates.
		if isUniqueConstraintError(err) {
			return models.NewValidationError("You already have an active request. Delete it to post another.")
		}
		return err
	}
	cache.InvalidateBoard(ctx)
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Request, error) {
	var req models.Request
	err := r.applyRequestDetails(r.db.WithContext(ctx), viewerID).
		Preload("Creator").
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ExistsForCreator(ctx context.Context, creatorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *requestRepository) List(ctx context.Context, opts ListOptions) ([]*models.Request, error) {
	var reqs []*models.Request

	q := r.applyRequestDetails(r.db.WithContext(ctx), opts.ViewerID).
		Preload("Creator")

	if opts.SinceHours > 0 {
		since := time.Now().Add(-time.Duration(opts.SinceHours) * time.Hour)
		q = q.Where("requests.created_at >= ?", since)
	}

	order := "requests.created_at DESC"
	if opts.Ascending {
		order = "requests.created_at ASC"
	}

	start := time.Now()
	err := q.Order(order).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&reqs).Error
	observability.ObserveQuery("list", "requests", start)
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Request{}).Count(&count).Error
	return count, err
}

// applyRequestDetails adds subqueries to fetch the like count and the
// viewer's liked/helped flags in a single query.
func (r *requestRepository) applyRequestDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "requests.*, " +
		"(SELECT COUNT(*) FROM request_likes WHERE request_likes.request_id = requests.id) as like_count"

	if viewerID != 0 {
		return db.Select(
			selectQuery+
				", EXISTS(SELECT 1 FROM request_likes WHERE request_likes.request_id = requests.id AND request_likes.user_id = ?) as liked_by_user"+
				", EXISTS(SELECT 1 FROM help_offers WHERE help_offers.request_id = requests.id AND help_offers.helper_id = ?) as helped_by_user",
			viewerID, viewerID,
		)
	}

	return db.Select(selectQuery + ", FALSE as liked_by_user, FALSE as helped_by_user")
}

// DeleteOwned removes a request and its dependent rows, but only when the
// request belongs to creatorID. Returns false when no such request exists.
func (r *requestRepository) DeleteOwned(ctx context.Context, id, creatorID uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.Request
		if err := tx.Select("id").
			Where("id = ? AND creator_id = ?", id, creatorID).
			First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&models.RequestLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&models.HelpOffer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Request{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		cache.Invalidate(ctx, cache.RequestKey(id))
		cache.InvalidateBoard(ctx)
	}
	return deleted, nil
}

// DeleteOlderThan removes requests created before cutoff along with their
// dependent rows, returning the number of requests removed.
func (r *requestRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Request{}).
			Where("created_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("request_id IN ?", ids).Delete(&models.RequestLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id IN ?", ids).Delete(&models.HelpOffer{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Request{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		cache.InvalidateBoard(ctx)
	}
	return removed, nil
}
