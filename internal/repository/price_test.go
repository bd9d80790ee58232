package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/testutil"
)

var allStatuses = []entity.PriceStatus{
	entity.PriceWaiting,
	entity.PricePassBeforeReview,
	entity.PricePass,
	entity.PriceReject,
	entity.PriceDeleted,
}

func ptr[T any](v T) *T { return &v }

func rowIDs(rows []repository.PriceRow) []uint64 {
	ids := []uint64{}
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func Test_priceRepository_GetList_OnlyPassed(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()

	rows, err := priceRepo.GetList(ctx, repository.PriceFilter{
		Statuses: []entity.PriceStatus{entity.PricePass},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{testutil.Price2.ID}, rowIDs(rows))
}

func Test_priceRepository_GetList_NoStatus(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	rows, err := repository.NewPriceRepository().GetList(ctx, repository.PriceFilter{})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func Test_priceRepository_GetList_Filters(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()

	tests := []struct {
		name   string
		filter repository.PriceFilter
		want   []uint64
	}{
		{
			name:   "all statuses are ordered by registration",
			filter: repository.PriceFilter{},
			want:   []uint64{1, 2, 3, 4},
		},
		{
			name:   "wine",
			filter: repository.PriceFilter{WineID: ptr(testutil.Wine1.ID)},
			want:   []uint64{1, 2},
		},
		{
			name:   "shop",
			filter: repository.PriceFilter{ShopID: ptr(testutil.Shop1.ID)},
			want:   []uint64{1, 3},
		},
		{
			name:   "writer",
			filter: repository.PriceFilter{WriterID: ptr(testutil.Writer1.ID)},
			want:   []uint64{1, 3},
		},
		{
			name:   "exclude admin writer",
			filter: repository.PriceFilter{ExcludeAdmin: true},
			want:   []uint64{1, 2, 3},
		},
		{
			name:   "search ignores case and spaces",
			filter: repository.PriceFilter{Search: "  OPUS one "},
			want:   []uint64{3, 4},
		},
		{
			name:   "search on winery",
			filter: repository.PriceFilter{Search: "chateaumargaux"},
			want:   []uint64{1, 2},
		},
		{
			name:   "search percent is literal",
			filter: repository.PriceFilter{Search: "%"},
			want:   []uint64{},
		},
		{
			name:   "search underscore is literal",
			filter: repository.PriceFilter{Search: "_"},
			want:   []uint64{},
		},
		{
			name:   "only reported",
			filter: repository.PriceFilter{OnlyReported: true},
			want:   []uint64{3},
		},
		{
			name:   "reporter of the active report",
			filter: repository.PriceFilter{ReporterID: ptr(testutil.Admin.ID)},
			want:   []uint64{3},
		},
		{
			name:   "reporter of an old report only",
			filter: repository.PriceFilter{ReporterID: ptr(testutil.Reviewer.ID)},
			want:   []uint64{},
		},
		{
			name: "wine and shop",
			filter: repository.PriceFilter{
				WineID: ptr(testutil.Wine2.ID),
				ShopID: ptr(testutil.Shop1.ID),
			},
			want: []uint64{3},
		},
		{
			name:   "limit",
			filter: repository.PriceFilter{Limit: 2},
			want:   []uint64{1, 2},
		},
		{
			name:   "cursor orders by id",
			filter: repository.PriceFilter{LastRowIndex: ptr[uint64](4)},
			want:   []uint64{3, 2, 1},
		},
		{
			name:   "cursor with limit",
			filter: repository.PriceFilter{LastRowIndex: ptr[uint64](3), Limit: 1},
			want:   []uint64{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.filter
			filter.Statuses = allStatuses

			rows, err := priceRepo.GetList(ctx, filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, rowIDs(rows))
		})
	}
}

func Test_priceRepository_GetRowByID(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()

	rejected, err := priceRepo.GetRowByID(ctx, testutil.Price3.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PriceReject, rejected.Status)
	require.NotNil(t, rejected.ReportID)
	require.Equal(t, testutil.Price3Report.ID, *rejected.ReportID)
	require.Equal(t, "duplicate", *rejected.ReportReason)
	require.Equal(t, testutil.Admin.ID, *rejected.ReporterID)
	require.Nil(t, rejected.RewardID)
	require.Equal(t, "Opus One", *rejected.WineName)
	require.True(t, testutil.Price3.Price.Equal(rejected.Price))

	rewarded, err := priceRepo.GetRowByID(ctx, testutil.Price2.ID)
	require.NoError(t, err)
	require.Nil(t, rewarded.ReportID)
	require.NotNil(t, rewarded.RewardID)
	require.Equal(t, testutil.Price2Reward.ID, *rewarded.RewardID)
	require.Equal(t, int64(3), *rewarded.RewardPoint)
	require.Equal(t, "Wine Market", *rewarded.ShopName)
	require.Equal(t, string(entity.WineWaiting), *rewarded.WineStatus)
	require.Equal(t, "writer2", *rewarded.WriterNickname)

	_, err = priceRepo.GetRowByID(ctx, 100)
	require.Error(t, err)
}

func Test_priceRepository_LatestReportWins(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()
	reportRepo := repository.NewReportRepository()

	for _, reason := range []string{"first", "second", "third"} {
		require.NoError(t, reportRepo.Create(ctx, &entity.Report{
			ReporterID: testutil.Reviewer.ID,
			PriceID:    testutil.Price1.ID,
			Reason:     reason,
		}))
	}

	row, err := priceRepo.GetRowByID(ctx, testutil.Price1.ID)
	require.NoError(t, err)
	require.Equal(t, "third", *row.ReportReason)

	// One row per price, whatever the number of reports.
	rows, err := priceRepo.GetList(ctx, repository.PriceFilter{Statuses: allStatuses})
	require.NoError(t, err)
	require.Len(t, rows, 4)
}

func Test_priceRepository_Counts(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()

	pending, err := priceRepo.CountByStatus(ctx, entity.PendingPriceStatuses...)
	require.NoError(t, err)
	require.Equal(t, int64(2), pending)

	count, err := priceRepo.CountByWineID(ctx, testutil.Wine2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func Test_priceRepository_UpdateAndDelete(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	priceRepo := repository.NewPriceRepository()

	affected, err := priceRepo.UpdateFields(ctx, testutil.Price1.ID, map[string]any{"stock_count": 12})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	affected, err = priceRepo.UpdateStatus(ctx, testutil.Price1.ID, entity.PricePass)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	price, err := priceRepo.GetByID(ctx, testutil.Price1.ID)
	require.NoError(t, err)
	require.Equal(t, 12, price.StockCount)
	require.Equal(t, entity.PricePass, price.Status)

	affected, err = priceRepo.DeleteByID(ctx, testutil.Price1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	_, err = priceRepo.GetByIDForUpdate(ctx, testutil.Price1.ID)
	require.Error(t, err)
}
