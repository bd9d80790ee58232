package repository_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/testutil"
	"gorm.io/gorm"
)

func Test_pointHistoryRepository_SumByUserID(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	historyRepo := repository.NewPointHistoryRepository()

	sum, err := historyRepo.SumByUserID(ctx, testutil.Writer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), sum)

	sum, err = historyRepo.SumByUserID(ctx, testutil.Writer2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), sum)

	sum, err = historyRepo.SumByUserID(ctx, testutil.Admin.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), sum)
}

func Test_pointHistoryRepository_SingleRewardPerPrice(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	historyRepo := repository.NewPointHistoryRepository()

	priceID := testutil.Price2.ID
	err := historyRepo.Create(ctx, &entity.PointHistory{
		UserID:       testutil.Writer2.ID,
		ActivityType: entity.PriceReward,
		ForeignKey:   &priceID,
		Point:        5,
	})
	require.Error(t, err)

	// Another activity type on the same price is a different row.
	require.NoError(t, historyRepo.Create(ctx, &entity.PointHistory{
		UserID:       testutil.Writer2.ID,
		ActivityType: entity.PointRevoke,
		ForeignKey:   &priceID,
		Point:        1,
	}))

	// Rows without price never conflict.
	for i := 0; i < 2; i++ {
		require.NoError(t, historyRepo.Create(ctx, &entity.PointHistory{
			UserID:       testutil.Writer2.ID,
			ActivityType: entity.PriceReward,
			Point:        1,
		}))
	}
}

func Test_pointHistoryRepository_GetByForeignKey(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	historyRepo := repository.NewPointHistoryRepository()

	reward, err := historyRepo.GetByForeignKey(ctx, testutil.Price2.ID, entity.PriceReward)
	require.NoError(t, err)
	require.Equal(t, testutil.Price2Reward.ID, reward.ID)

	_, err = historyRepo.GetByForeignKey(ctx, testutil.Price1.ID, entity.PriceReward)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func Test_pointHistoryRepository_UpdateDelete(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	historyRepo := repository.NewPointHistoryRepository()

	affected, err := historyRepo.UpdateByID(ctx, testutil.Writer1Revoke.ID, 1, "less abuse")
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	sum, err := historyRepo.SumByUserID(ctx, testutil.Writer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(9), sum)

	histories, err := historyRepo.GetListByUserID(ctx, testutil.Writer1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	require.Equal(t, testutil.Writer1Revoke.ID, histories[0].ID)
	require.Equal(t, "less abuse", histories[0].Note)

	affected, err = historyRepo.DeleteByForeignKey(ctx, testutil.Price2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	affected, err = historyRepo.DeleteByID(ctx, testutil.Writer1Grant.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	sum, err = historyRepo.SumByUserID(ctx, testutil.Writer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(-1), sum)
}
