package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"luckydraw/models"
	"luckydraw/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	scenario := testutil.InsertScenario(t, testDB.DB)

	t.Run("missing draw", func(t *testing.T) {
		draw, err := repo.GetByID(ctx, scenario.Draw.ID+1000)
		require.NoError(t, err)
		assert.Nil(t, draw)
	})

	t.Run("pending draw", func(t *testing.T) {
		draw, err := repo.GetByID(ctx, scenario.Draw.ID)
		require.NoError(t, err)
		require.NotNil(t, draw)

		assert.Equal(t, scenario.Fundraiser.ID, draw.FundraiserID)
		assert.Equal(t, "School Roof Appeal", draw.FundraiserTitle)
		assert.Equal(t, "Gift hamper", draw.Prize)
		assert.Equal(t, models.DrawStatePending, draw.State())
		assert.Nil(t, draw.SupporterID)
		assert.Nil(t, draw.WinningTicketNumber)
		assert.Nil(t, draw.DecidedAt)

		y, m, d := time.Now().UTC().Date()
		assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), draw.DrawDate)
	})
}

func TestDrawRepository_SetWinner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	scenario := testutil.InsertScenario(t, testDB.DB)
	winner := scenario.Supporters[1].ID
	decidedAt := time.Now().UTC().Truncate(time.Microsecond)

	updated, err := repo.SetWinner(ctx, scenario.Draw.ID, winner, 5, decidedAt)
	require.NoError(t, err)
	assert.True(t, updated)

	draw, err := repo.GetByID(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	require.True(t, draw.IsDecided())
	assert.Equal(t, winner, *draw.SupporterID)
	assert.Equal(t, int64(5), *draw.WinningTicketNumber)
	assert.True(t, draw.DecidedAt.Equal(decidedAt))

	t.Run("second write affects nothing", func(t *testing.T) {
		updated, err := repo.SetWinner(ctx, scenario.Draw.ID, scenario.Supporters[0].ID, 1, time.Now())
		require.NoError(t, err)
		assert.False(t, updated)

		draw, err := repo.GetByID(ctx, scenario.Draw.ID)
		require.NoError(t, err)
		assert.Equal(t, winner, *draw.SupporterID)
	})

	t.Run("missing draw affects nothing", func(t *testing.T) {
		updated, err := repo.SetWinner(ctx, scenario.Draw.ID+1000, winner, 5, time.Now())
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestDrawWinnerImmutableTrigger(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	scenario := testutil.InsertScenario(t, testDB.DB)
	_, err := repo.SetWinner(ctx, scenario.Draw.ID, scenario.Supporters[2].ID, 6, time.Now())
	require.NoError(t, err)

	_, err = testDB.DB.Exec(ctx, `UPDATE draws SET supporter_id = $2 WHERE id = $1`,
		scenario.Draw.ID, scenario.Supporters[0].ID)
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23514", pgErr.Code)

	// Unrelated columns stay editable
	_, err = testDB.DB.Exec(ctx, `UPDATE draws SET prize = 'Bigger hamper' WHERE id = $1`, scenario.Draw.ID)
	require.NoError(t, err)

	draw, err := repo.GetByID(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	assert.Equal(t, scenario.Supporters[2].ID, *draw.SupporterID)
	assert.Equal(t, "Bigger hamper", draw.Prize)
}

func TestDrawRepository_SetWinnerRolledBack(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	scenario := testutil.InsertScenario(t, testDB.DB)

	errAbort := errors.New("abort")
	err := testDB.DB.WithTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		updated, err := newDrawRepositoryWithTx(tx).SetWinner(ctx, scenario.Draw.ID, scenario.Supporters[0].ID, 2, time.Now())
		require.NoError(t, err)
		require.True(t, updated)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	draw, err := NewDrawRepository(testDB.DB).GetByID(ctx, scenario.Draw.ID)
	require.NoError(t, err)
	assert.False(t, draw.IsDecided())
}
