package repository

import (
	"context"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
)

type ReportRepository interface {
	Create(ctx context.Context, data *entity.Report) error
	GetByID(ctx context.Context, id uint64) (*entity.Report, error)
	GetActiveByPriceID(ctx context.Context, priceID uint64) (*entity.Report, error)
	GetListByPriceID(ctx context.Context, priceID uint64) ([]entity.Report, error)
	UpdateReasonByID(ctx context.Context, id uint64, reason string) (int64, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	DeleteByPriceID(ctx context.Context, priceID uint64) (int64, error)
}

type reportRepository struct{}

func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) Create(ctx context.Context, data *entity.Report) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id uint64) (*entity.Report, error) {
	var result entity.Report
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetActiveByPriceID returns the latest report of a price.
func (r *reportRepository) GetActiveByPriceID(ctx context.Context, priceID uint64) (*entity.Report, error) {
	var result entity.Report
	err := xcontext.DB(ctx).
		Where("price_id=?", priceID).
		Order("id DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reportRepository) GetListByPriceID(ctx context.Context, priceID uint64) ([]entity.Report, error) {
	result := []entity.Report{}
	err := xcontext.DB(ctx).
		Where("price_id=?", priceID).
		Order("id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *reportRepository) UpdateReasonByID(ctx context.Context, id uint64, reason string) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Report{}).
		Where("id=?", id).
		Update("reason", reason)
	return tx.RowsAffected, tx.Error
}

func (r *reportRepository) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.Report{}, "id=?", id)
	return tx.RowsAffected, tx.Error
}

func (r *reportRepository) DeleteByPriceID(ctx context.Context, priceID uint64) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.Report{}, "price_id=?", priceID)
	return tx.RowsAffected, tx.Error
}
