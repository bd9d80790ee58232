package repository

import (
	"context"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
)

type WineRepository interface {
	Create(ctx context.Context, data *entity.Wine) error
	GetByID(ctx context.Context, id uint64) (*entity.Wine, error)
	UpdateStatus(ctx context.Context, id uint64, status entity.WineStatus) error
	DeleteByID(ctx context.Context, id uint64) error
}

type wineRepository struct{}

func NewWineRepository() WineRepository {
	return &wineRepository{}
}

func (r *wineRepository) Create(ctx context.Context, data *entity.Wine) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *wineRepository) GetByID(ctx context.Context, id uint64) (*entity.Wine, error) {
	var result entity.Wine
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *wineRepository) UpdateStatus(ctx context.Context, id uint64, status entity.WineStatus) error {
	return xcontext.DB(ctx).
		Model(&entity.Wine{}).
		Where("id=?", id).
		Update("status", status).Error
}

func (r *wineRepository) DeleteByID(ctx context.Context, id uint64) error {
	return xcontext.DB(ctx).Delete(&entity.Wine{}, "id=?", id).Error
}
