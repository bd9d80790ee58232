package domain

import (
	"context"
	"strings"

	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/xcontext"
)

type ReportDomain interface {
	Update(context.Context, *model.UpdateReportRequest) (*model.UpdateReportResponse, error)
	Delete(context.Context, *model.DeleteReportRequest) (*model.DeleteReportResponse, error)
	GetList(context.Context, *model.GetListReportRequest) (*model.GetListReportResponse, error)
}

type reportDomain struct {
	reportRepo repository.ReportRepository
}

func NewReportDomain(reportRepo repository.ReportRepository) ReportDomain {
	return &reportDomain{reportRepo: reportRepo}
}

func (d *reportDomain) Update(ctx context.Context, req *model.UpdateReportRequest) (*model.UpdateReportResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty reason")
	}

	affected, err := d.reportRepo.UpdateReasonByID(ctx, req.ID, reason)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update report: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot update report")
	}

	if affected == 0 {
		if _, err := d.reportRepo.GetByID(ctx, req.ID); err != nil {
			return nil, storeError(ctx, err, "Not found report", "Cannot get report")
		}
	}

	return &model.UpdateReportResponse{AffectedRows: affected}, nil
}

func (d *reportDomain) Delete(ctx context.Context, req *model.DeleteReportRequest) (*model.DeleteReportResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	affected, err := d.reportRepo.DeleteByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete report: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot delete report")
	}

	if affected == 0 {
		return nil, errorx.New(errorx.NotFound, "Not found report")
	}

	return &model.DeleteReportResponse{AffectedRows: affected}, nil
}

func (d *reportDomain) GetList(
	ctx context.Context, req *model.GetListReportRequest,
) (*model.GetListReportResponse, error) {
	if req.PriceID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty price id")
	}

	reports, err := d.reportRepo.GetListByPriceID(ctx, req.PriceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reports: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Report, 0, len(reports))
	for i := range reports {
		result = append(result, model.ConvertReport(&reports[i]))
	}

	return &model.GetListReportResponse{Reports: result}, nil
}
