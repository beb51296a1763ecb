package repository

import (
	"context"
	"testing"
	"time"

	"quad/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRequestRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	req := &models.Request{
		CreatorID:   1,
		Title:       "Need a ride",
		Description: "Airport run on Friday",
		Location:    "Madison",
		City:        "Madison",
		Urgency:     models.UrgencyHigh,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, req)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_ExistsForCreator(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "requests" WHERE creator_id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForCreator(ctx, 7)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "requests" WHERE creator_id = \$1`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.ExistsForCreator(ctx, 8)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "requests"`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByID(ctx, 42, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_List_ComputedColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "creator_id", "title", "like_count", "liked_by_user", "helped_by_user",
	}).
		AddRow(2, 5, "Study group for finals", 3, true, false).
		AddRow(1, 4, "Borrow a bike pump", 0, false, true)

	mock.ExpectQuery(`SELECT requests\.\*, \(SELECT COUNT\(\*\) FROM request_likes`).
		WillReturnRows(rows)
	// Creator preload
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(4, "sam").
			AddRow(5, "alex"))

	list, err := repo.List(ctx, ListOptions{Limit: 50, ViewerID: 9})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].LikeCount)
	assert.True(t, list[0].LikedByUser)
	assert.False(t, list[0].HelpedByUser)
	assert.True(t, list[1].HelpedByUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_DeleteOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	t.Run("owner deletes with cascade", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "requests" WHERE id = \$1 AND creator_id = \$2`).
			WithArgs(3, 1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectExec(`DELETE FROM "request_likes" WHERE request_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "help_offers" WHERE request_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "requests" WHERE "requests"\."id" = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.DeleteOwned(ctx, 3, 1)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner gets false", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "requests" WHERE id = \$1 AND creator_id = \$2`).
			WithArgs(3, 2, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectCommit()

		deleted, err := repo.DeleteOwned(ctx, 3, 2)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_DeleteOlderThan(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()
	cutoff := time.Now().Add(-14 * 24 * time.Hour)

	t.Run("removes stale requests", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "requests" WHERE created_at < \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
		mock.ExpectExec(`DELETE FROM "request_likes" WHERE request_id IN \(\$1,\$2\)`).
			WithArgs(11, 12).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM "help_offers" WHERE request_id IN \(\$1,\$2\)`).
			WithArgs(11, 12).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "requests" WHERE id IN \(\$1,\$2\)`).
			WithArgs(11, 12).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		removed, err := repo.DeleteOlderThan(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing stale", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "id" FROM "requests" WHERE created_at < \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		removed, err := repo.DeleteOlderThan(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(0), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
