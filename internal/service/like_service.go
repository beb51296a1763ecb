package service

import (
	"context"
	"errors"

	"quad/internal/models"
	"quad/internal/repository"

	"gorm.io/gorm"
)

// ToggleResult is the post-toggle like state for a request.
type ToggleResult struct {
	LikeCount int64 `json:"like_count"`
	Liked     bool  `json:"liked"`
}

// LikeService flips a viewer's like on a request. There is no explicit
// like or unlike operation; callers can only flip the current state.
type LikeService struct {
	requestRepo repository.RequestRepository
	likeRepo    repository.LikeRepository
}

// NewLikeService creates a LikeService.
func NewLikeService(requestRepo repository.RequestRepository, likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{requestRepo: requestRepo, likeRepo: likeRepo}
}

// ToggleLike flips userID's like on a request and returns the resulting
// liked flag plus a fresh like count.
func (s *LikeService) ToggleLike(ctx context.Context, requestID, userID uint) (*ToggleResult, error) {
	if _, err := s.requestRepo.GetByID(ctx, requestID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request not found")
		}
		return nil, models.NewInternalError(err)
	}

	liked, count, err := s.likeRepo.Toggle(ctx, userID, requestID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &ToggleResult{LikeCount: count, Liked: liked}, nil
}
