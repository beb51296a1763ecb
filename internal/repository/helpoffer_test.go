package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpOfferRepository_Offer(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHelpOfferRepository(db)
	ctx := context.Background()

	t.Run("first offer inserts", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "help_offers" (.+) ON CONFLICT DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		created, err := repo.Offer(ctx, 4, 7)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat offer is absorbed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "help_offers" (.+) ON CONFLICT DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		created, err := repo.Offer(ctx, 4, 7)
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHelpOfferRepository_Withdraw(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHelpOfferRepository(db)
	ctx := context.Background()

	t.Run("existing offer removed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "help_offers" WHERE helper_id = \$1 AND request_id = \$2`).
			WithArgs(4, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		removed, err := repo.Withdraw(ctx, 4, 7)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent offer is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "help_offers" WHERE helper_id = \$1 AND request_id = \$2`).
			WithArgs(4, 7).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		removed, err := repo.Withdraw(ctx, 4, 7)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHelpOfferRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHelpOfferRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "help_offers" WHERE helper_id = \$1 AND request_id = \$2`).
		WithArgs(4, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Exists(ctx, 4, 7)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
