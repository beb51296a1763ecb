// Package service holds the business logic for the request board.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quad/internal/cache"
	"quad/internal/featureflags"
	"quad/internal/models"
	"quad/internal/observability"
	"quad/internal/repository"
	"quad/internal/validation"

	"gorm.io/gorm"
)

// Board ordering values accepted by ListRequests.
const (
	OrderNewest = "newest"
	OrderOldest = "oldest"
)

// maxListLimit caps explicit page sizes. Asks above it clamp down to it
// rather than falling back to the default page size.
const maxListLimit = 100

// BoardConfig carries the retention and paging knobs for the board.
type BoardConfig struct {
	// PruneThreshold is the request count above which a listing read
	// triggers the retention sweep.
	PruneThreshold int
	// RetentionDays is the age beyond which swept requests are deleted.
	RetentionDays int
	// DefaultLimit is the page size used when the caller gives none.
	DefaultLimit int
}

// BoardService implements the request board lifecycle: create, list with
// inline retention sweeping, and owner deletes.
type BoardService struct {
	requestRepo repository.RequestRepository
	flags       *featureflags.Manager
	cfg         BoardConfig
}

// NewBoardService creates a BoardService. flags may be nil, in which case
// every flag-gated behavior takes its default.
func NewBoardService(requestRepo repository.RequestRepository, flags *featureflags.Manager, cfg BoardConfig) *BoardService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	return &BoardService{requestRepo: requestRepo, flags: flags, cfg: cfg}
}

// CreateRequestInput is the raw payload for posting a request. Tags is
// left untyped; anything that is not a sequence of strings normalizes to
// an empty tag set.
type CreateRequestInput struct {
	CreatorID   uint
	Title       string
	Description string
	Location    string
	City        string
	IsRemote    bool
	Tags        any
	Urgency     string
}

// ListRequestsInput narrows a board listing. ViewerID zero means anonymous.
type ListRequestsInput struct {
	SinceHours int
	Order      string
	Limit      int
	ViewerID   uint
}

// BoardPage is a single bounded page of the board plus listing metadata.
type BoardPage struct {
	Requests []*models.Request `json:"requests"`
	Meta     models.BoardMeta  `json:"meta"`
}

// CreateRequest validates and persists a new board request, then returns
// the stored row joined with the creator's public identity.
func (s *BoardService) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.Request, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = strings.TrimSpace(in.City)
	}
	if location == "" && in.IsRemote {
		location = models.RemoteLocation
	}
	if location == "" {
		return nil, models.NewValidationError("Location is required")
	}

	city := strings.TrimSpace(in.City)
	if !in.IsRemote && city == "" {
		return nil, models.NewValidationError("City is required for in-person requests")
	}

	exists, err := s.requestRepo.ExistsForCreator(ctx, in.CreatorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewValidationError("You already have an active request. Delete it to post another.")
	}

	urgency := strings.ToLower(strings.TrimSpace(in.Urgency))
	if urgency == "" {
		urgency = models.UrgencyLow
	}
	if !models.ValidUrgency(urgency) {
		return nil, models.NewValidationError("Urgency must be low, medium, or high")
	}

	req := &models.Request{
		CreatorID:   in.CreatorID,
		Title:       title,
		Description: description,
		Location:    location,
		City:        city,
		IsRemote:    in.IsRemote,
		Tags:        validation.NormalizeTags(in.Tags),
		Urgency:     urgency,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}

	created, err := s.requestRepo.GetByID(ctx, req.ID, in.CreatorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return created, nil
}

// ListRequests returns a bounded page of the board. Every call first runs
// the retention sweep when the board is over its prune threshold; the
// AutoPruneActive flag reports "over threshold", not "rows were deleted".
func (s *BoardService) ListRequests(ctx context.Context, in ListRequestsInput) (*BoardPage, error) {
	meta := models.BoardMeta{}

	count, err := s.requestRepo.Count(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if count > int64(s.cfg.PruneThreshold) {
		meta.AutoPruneActive = true
		cutoff := time.Now().Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
		pruned, err := s.requestRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		observability.BoardPruneRuns.Inc()
		observability.BoardPrunedRequests.Add(float64(pruned))
	}

	limit := in.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	opts := repository.ListOptions{
		SinceHours: in.SinceHours,
		Ascending:  in.Order == OrderOldest,
		Limit:      limit,
		ViewerID:   in.ViewerID,
	}

	var requests []*models.Request

	// Only the anonymous default page is cached; viewer-scoped flags and
	// filtered reads always hit the store. The board_cache feature flag
	// is the kill switch for the cached path.
	if s.cacheEnabled() && s.cacheable(in, limit) && !meta.AutoPruneActive {
		err = cache.Aside(ctx, cache.BoardListKey, &requests, cache.BoardListTTL, func() error {
			var fetchErr error
			requests, fetchErr = s.requestRepo.List(ctx, opts)
			return fetchErr
		})
	} else {
		requests, err = s.requestRepo.List(ctx, opts)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if requests == nil {
		requests = []*models.Request{}
	}
	return &BoardPage{Requests: requests, Meta: meta}, nil
}

// cacheEnabled evaluates the board_cache flag. With no flag manager the
// cache stays on; the default config ships the flag as "on".
func (s *BoardService) cacheEnabled() bool {
	if s.flags == nil {
		return true
	}
	return s.flags.Enabled("board_cache", 0)
}

func (s *BoardService) cacheable(in ListRequestsInput, limit int) bool {
	return in.ViewerID == 0 &&
		in.SinceHours == 0 &&
		(in.Order == "" || in.Order == OrderNewest) &&
		limit == s.cfg.DefaultLimit
}

// DeleteRequest removes the caller's own request along with its like and
// help offer rows.
func (s *BoardService) DeleteRequest(ctx context.Context, requestID, userID uint) error {
	deleted, err := s.requestRepo.DeleteOwned(ctx, requestID, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !deleted {
		return models.NewNotFoundError("Request not found or not yours")
	}
	return nil
}

// GetRequest returns a single request with viewer-scoped social flags.
func (s *BoardService) GetRequest(ctx context.Context, requestID, viewerID uint) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request not found")
		}
		return nil, models.NewInternalError(err)
	}
	return req, nil
}
