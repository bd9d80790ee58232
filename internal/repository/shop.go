package repository

import (
	"context"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
)

type ShopRepository interface {
	Create(ctx context.Context, data *entity.Shop) error
	GetByID(ctx context.Context, id uint64) (*entity.Shop, error)
}

type shopRepository struct{}

func NewShopRepository() ShopRepository {
	return &shopRepository{}
}

func (r *shopRepository) Create(ctx context.Context, data *entity.Shop) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uint64) (*entity.Shop, error) {
	var result entity.Shop
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
