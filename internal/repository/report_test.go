package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/testutil"
)

func Test_reportRepository(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	reportRepo := repository.NewReportRepository()

	active, err := reportRepo.GetActiveByPriceID(ctx, testutil.Price3.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Price3Report.ID, active.ID)

	reports, err := reportRepo.GetListByPriceID(ctx, testutil.Price3.ID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, testutil.Price3Report.ID, reports[0].ID)
	require.Equal(t, testutil.Price3OldReport.ID, reports[1].ID)

	affected, err := reportRepo.UpdateReasonByID(ctx, testutil.Price3OldReport.ID, "unreadable receipt")
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	report, err := reportRepo.GetByID(ctx, testutil.Price3OldReport.ID)
	require.NoError(t, err)
	require.Equal(t, "unreadable receipt", report.Reason)

	affected, err = reportRepo.DeleteByID(ctx, testutil.Price3Report.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	// The older report becomes active again.
	active, err = reportRepo.GetActiveByPriceID(ctx, testutil.Price3.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Price3OldReport.ID, active.ID)

	affected, err = reportRepo.DeleteByPriceID(ctx, testutil.Price3.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	_, err = reportRepo.GetActiveByPriceID(ctx, testutil.Price3.ID)
	require.Error(t, err)
}
