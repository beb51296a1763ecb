package service

import (
	"context"
	"errors"
	"testing"

	"quad/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// likeRepoStub keeps like state in memory with toggle semantics.
type likeRepoStub struct {
	likes map[[2]uint]bool
}

func newLikeRepoStub() *likeRepoStub {
	return &likeRepoStub{likes: map[[2]uint]bool{}}
}

func (s *likeRepoStub) Toggle(_ context.Context, userID, requestID uint) (bool, int64, error) {
	key := [2]uint{userID, requestID}
	if s.likes[key] {
		delete(s.likes, key)
	} else {
		s.likes[key] = true
	}
	var count int64
	for k := range s.likes {
		if k[1] == requestID {
			count++
		}
	}
	return s.likes[key], count, nil
}

func (s *likeRepoStub) IsLiked(_ context.Context, userID, requestID uint) (bool, error) {
	return s.likes[[2]uint{userID, requestID}], nil
}

func (s *likeRepoStub) Count(_ context.Context, requestID uint) (int64, error) {
	var count int64
	for k := range s.likes {
		if k[1] == requestID {
			count++
		}
	}
	return count, nil
}

func TestToggleLike_Involution(t *testing.T) {
	likeRepo := newLikeRepoStub()
	svc := NewLikeService(noopRequestRepo(), likeRepo)
	ctx := context.Background()

	first, err := svc.ToggleLike(ctx, 5, 2)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, int64(1), first.LikeCount)

	// A second toggle restores the original state exactly.
	second, err := svc.ToggleLike(ctx, 5, 2)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, int64(0), second.LikeCount)
}

func TestToggleLike_CountsAllLikers(t *testing.T) {
	likeRepo := newLikeRepoStub()
	svc := NewLikeService(noopRequestRepo(), likeRepo)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, 5, 2)
	require.NoError(t, err)
	res, err := svc.ToggleLike(ctx, 5, 3)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(2), res.LikeCount)
}

func TestToggleLike_MissingRequest(t *testing.T) {
	repo := noopRequestRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Request, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewLikeService(repo, newLikeRepoStub())

	_, err := svc.ToggleLike(context.Background(), 99, 2)
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
