package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/testutil"
)

func newTestPointDomain() PointDomain {
	return NewPointDomain(
		repository.NewPointHistoryRepository(),
		repository.NewUserRepository(),
		repository.NewPriceRepository(),
		nil,
	)
}

func uint64Ptr(v uint64) *uint64 { return &v }

func Test_pointDomain_Grant(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()

	resp, err := domain.Grant(ctx, &model.GrantPointRequest{
		UserID: testutil.Writer1.ID,
		Point:  10,
		Note:   "event",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.HistoryID)
	requireBalance(t, ctx, testutil.Writer1.ID, 16)

	_, err = domain.Grant(ctx, &model.GrantPointRequest{
		UserID:       testutil.Writer1.ID,
		Point:        7,
		ActivityType: string(entity.PointRevoke),
	})
	require.NoError(t, err)
	requireBalance(t, ctx, testutil.Writer1.ID, 9)
}

func Test_pointDomain_Grant_PriceRewardIsRoutedToUpdate(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()

	first, err := domain.Grant(ctx, &model.GrantPointRequest{
		UserID:  testutil.Writer1.ID,
		PriceID: uint64Ptr(testutil.Price1.ID),
		Point:   4,
	})
	require.NoError(t, err)
	requireBalance(t, ctx, testutil.Writer1.ID, 10)

	second, err := domain.Grant(ctx, &model.GrantPointRequest{
		UserID:  testutil.Writer1.ID,
		PriceID: uint64Ptr(testutil.Price1.ID),
		Point:   2,
		Note:    "corrected",
	})
	require.NoError(t, err)
	require.Equal(t, first.HistoryID, second.HistoryID)
	requireBalance(t, ctx, testutil.Writer1.ID, 8)

	histories, err := repository.NewPointHistoryRepository().GetListByForeignKey(ctx, testutil.Price1.ID)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	require.Equal(t, "corrected", histories[0].Note)
}

func Test_pointDomain_Grant_Invalid(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()

	// Writer1 takes a revoke on Price2 before Writer2 asks for one.
	_, err := domain.Grant(ctx, &model.GrantPointRequest{
		UserID:       testutil.Writer1.ID,
		PriceID:      uint64Ptr(testutil.Price2.ID),
		Point:        1,
		ActivityType: string(entity.PointRevoke),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *model.GrantPointRequest
		want errorx.Code
	}{
		{
			name: "empty user",
			req:  &model.GrantPointRequest{Point: 1},
			want: errorx.BadRequest,
		},
		{
			name: "negative point",
			req:  &model.GrantPointRequest{UserID: testutil.Writer1.ID, Point: -1},
			want: errorx.BadRequest,
		},
		{
			name: "unknown activity",
			req:  &model.GrantPointRequest{UserID: testutil.Writer1.ID, Point: 1, ActivityType: "bonus"},
			want: errorx.BadRequest,
		},
		{
			name: "zero price",
			req:  &model.GrantPointRequest{UserID: testutil.Writer1.ID, Point: 1, PriceID: uint64Ptr(0)},
			want: errorx.BadRequest,
		},
		{
			name: "unknown price",
			req:  &model.GrantPointRequest{UserID: testutil.Writer1.ID, Point: 1, PriceID: uint64Ptr(100)},
			want: errorx.NotFound,
		},
		{
			name: "reward to another user than the writer",
			req: &model.GrantPointRequest{
				UserID: testutil.Writer1.ID, Point: 1, PriceID: uint64Ptr(testutil.Price2.ID),
			},
			want: errorx.BadRequest,
		},
		{
			name: "revoke owned by another user",
			req: &model.GrantPointRequest{
				UserID:       testutil.Writer2.ID,
				Point:        1,
				PriceID:      uint64Ptr(testutil.Price2.ID),
				ActivityType: string(entity.PointRevoke),
			},
			want: errorx.AlreadyExists,
		},
		{
			name: "unknown user",
			req:  &model.GrantPointRequest{UserID: 100, Point: 1},
			want: errorx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.Grant(ctx, tt.req)
			requireErrorCode(t, err, tt.want)
		})
	}

	// The row inserted before the unknown user was detected is rolled back.
	histories, err := repository.NewPointHistoryRepository().GetListByUserID(ctx, 100, 0, 10)
	require.NoError(t, err)
	require.Empty(t, histories)

	requireBalance(t, ctx, testutil.Writer1.ID, 5)
	requireBalance(t, ctx, testutil.Writer2.ID, 3)
}

func Test_pointDomain_UpdateDelete(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()

	resp, err := domain.Update(ctx, &model.UpdatePointRequest{
		ID:    testutil.Writer1Grant.ID,
		Point: 20,
		Note:  "bigger event",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.AffectedRows)
	requireBalance(t, ctx, testutil.Writer1.ID, 16)

	deleted, err := domain.Delete(ctx, &model.DeletePointRequest{ID: testutil.Writer1Revoke.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted.AffectedRows)
	requireBalance(t, ctx, testutil.Writer1.ID, 20)

	_, err = domain.Update(ctx, &model.UpdatePointRequest{ID: 100, Point: 1})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = domain.Update(ctx, &model.UpdatePointRequest{ID: testutil.Writer1Grant.ID, Point: -1})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = domain.Delete(ctx, &model.DeletePointRequest{ID: testutil.Writer1Revoke.ID})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = domain.Delete(ctx, &model.DeletePointRequest{})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_pointDomain_GetHistory(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()

	resp, err := domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: testutil.Writer1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(6), resp.Balance)
	require.Len(t, resp.Histories, 2)
	require.Equal(t, testutil.Writer1Revoke.ID, resp.Histories[0].ID)
	require.Equal(t, string(entity.PointRevoke), resp.Histories[0].ActivityType)

	resp, err = domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: testutil.Writer2.ID})
	require.NoError(t, err)
	require.Len(t, resp.Histories, 1)
	require.Equal(t, testutil.Price2.ID, *resp.Histories[0].PriceID)

	resp, err = domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: testutil.Writer1.ID, Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Histories, 1)
	require.Equal(t, testutil.Writer1Grant.ID, resp.Histories[0].ID)

	_, err = domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: 100})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: testutil.Writer1.ID, Limit: 100})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = domain.GetHistory(ctx, &model.GetPointHistoryRequest{UserID: testutil.Writer1.ID, Offset: -1})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_pointDomain_Resync(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()
	userRepo := repository.NewUserRepository()

	require.NoError(t, userRepo.UpdatePoint(ctx, testutil.Writer1.ID, 999))

	resp, err := domain.Resync(ctx, &model.ResyncPointRequest{UserID: testutil.Writer1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(6), resp.Balance)
	requireBalance(t, ctx, testutil.Writer1.ID, 6)

	_, err = domain.Resync(ctx, &model.ResyncPointRequest{UserID: 100})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_pointDomain_ResyncAll(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPointDomain()
	userRepo := repository.NewUserRepository()

	extra := testutil.SampleUser(ctx, entity.User{Point: 42})
	require.NoError(t, userRepo.UpdatePoint(ctx, testutil.Writer1.ID, -5))
	require.NoError(t, userRepo.UpdatePoint(ctx, testutil.Admin.ID, 7))

	count, err := domain.ResyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	requireBalance(t, ctx, testutil.Admin.ID, 0)
	requireBalance(t, ctx, testutil.Writer1.ID, 6)
	requireBalance(t, ctx, testutil.Writer2.ID, 3)
	requireBalance(t, ctx, extra.ID, 0)
}

// Whatever the order of the operations, the cached balance of every user equals the sum
// of the history.
func Test_BalanceInvariant(t *testing.T) {
	ctx := testutil.NewMockContextWithUserID(testutil.Reviewer.ID)
	testutil.CreateFixtureDb(ctx)
	prices := newTestPriceDomain(nil, nil)
	points := newTestPointDomain()
	historyRepo := repository.NewPointHistoryRepository()

	writers := []uint64{testutil.Writer1.ID, testutil.Writer2.ID}
	priceIDs := []uint64{}
	for i := 0; i < 6; i++ {
		price := testutil.SamplePrice(ctx, entity.WinePrice{
			WineID:   testutil.Wine2.ID,
			WriterID: writers[i%2],
		})
		priceIDs = append(priceIDs, price.ID)
	}

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		priceID := priceIDs[rnd.Intn(len(priceIDs))]
		point := int64(rnd.Intn(10))

		var err error
		switch rnd.Intn(6) {
		case 0:
			_, err = prices.ChangeStatus(ctx, &model.ChangePriceStatusRequest{
				ID: priceID, Status: string(entity.PricePass), Point: &point,
			})
		case 1:
			_, err = prices.Reject(ctx, &model.RejectPriceRequest{
				ID: priceID, Reason: []string{"blurry", "duplicate"}[rnd.Intn(2)],
			})
		case 2:
			_, err = prices.ChangeStatus(ctx, &model.ChangePriceStatusRequest{
				ID: priceID, Status: string(entity.PriceWaiting),
			})
		case 3:
			_, err = points.Grant(ctx, &model.GrantPointRequest{
				UserID: writers[rnd.Intn(2)], Point: point,
				ActivityType: []string{"", string(entity.PointRevoke)}[rnd.Intn(2)],
			})
		case 4:
			histories, listErr := historyRepo.GetListByUserID(ctx, writers[rnd.Intn(2)], 0, 50)
			require.NoError(t, listErr)
			if len(histories) > 0 {
				_, err = points.Update(ctx, &model.UpdatePointRequest{
					ID: histories[rnd.Intn(len(histories))].ID, Point: point,
				})
			}
		case 5:
			histories, listErr := historyRepo.GetListByUserID(ctx, writers[rnd.Intn(2)], 0, 50)
			require.NoError(t, listErr)
			if len(histories) > 0 {
				_, err = points.Delete(ctx, &model.DeletePointRequest{
					ID: histories[rnd.Intn(len(histories))].ID,
				})
			}
		}
		require.NoError(t, err)

		for _, writer := range writers {
			user, err := repository.NewUserRepository().GetByID(ctx, writer)
			require.NoError(t, err)

			sum, err := historyRepo.SumByUserID(ctx, writer)
			require.NoError(t, err)
			require.Equal(t, sum, user.Point, "after step %d", i)
		}
	}

	// A price never holds more than one reward.
	for _, priceID := range priceIDs {
		histories, err := historyRepo.GetListByForeignKey(ctx, priceID)
		require.NoError(t, err)
		require.LessOrEqual(t, len(histories), 1)
	}
}
