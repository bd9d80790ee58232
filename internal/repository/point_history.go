package repository

import (
	"context"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
)

type PointHistoryRepository interface {
	Create(ctx context.Context, data *entity.PointHistory) error
	GetByID(ctx context.Context, id uint64) (*entity.PointHistory, error)
	GetByForeignKey(ctx context.Context, foreignKey uint64, activity entity.ActivityType) (*entity.PointHistory, error)
	GetListByForeignKey(ctx context.Context, foreignKey uint64) ([]entity.PointHistory, error)
	GetListByUserID(ctx context.Context, userID uint64, offset, limit int) ([]entity.PointHistory, error)
	UpdateByID(ctx context.Context, id uint64, point int64, note string) (int64, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
	DeleteByForeignKey(ctx context.Context, foreignKey uint64) (int64, error)
	SumByUserID(ctx context.Context, userID uint64) (int64, error)
}

type pointHistoryRepository struct{}

func NewPointHistoryRepository() PointHistoryRepository {
	return &pointHistoryRepository{}
}

func (r *pointHistoryRepository) Create(ctx context.Context, data *entity.PointHistory) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointHistoryRepository) GetByID(ctx context.Context, id uint64) (*entity.PointHistory, error) {
	var result entity.PointHistory
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pointHistoryRepository) GetByForeignKey(
	ctx context.Context, foreignKey uint64, activity entity.ActivityType,
) (*entity.PointHistory, error) {
	var result entity.PointHistory
	err := xcontext.DB(ctx).
		Where("foreign_key=? AND activity_type=?", foreignKey, activity).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pointHistoryRepository) GetListByForeignKey(ctx context.Context, foreignKey uint64) ([]entity.PointHistory, error) {
	result := []entity.PointHistory{}
	if err := xcontext.DB(ctx).Find(&result, "foreign_key=?", foreignKey).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointHistoryRepository) GetListByUserID(
	ctx context.Context, userID uint64, offset, limit int,
) ([]entity.PointHistory, error) {
	result := []entity.PointHistory{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pointHistoryRepository) UpdateByID(ctx context.Context, id uint64, point int64, note string) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.PointHistory{}).
		Where("id=?", id).
		Updates(map[string]any{"point": point, "note": note})
	return tx.RowsAffected, tx.Error
}

func (r *pointHistoryRepository) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.PointHistory{}, "id=?", id)
	return tx.RowsAffected, tx.Error
}

func (r *pointHistoryRepository) DeleteByForeignKey(ctx context.Context, foreignKey uint64) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.PointHistory{}, "foreign_key=?", foreignKey)
	return tx.RowsAffected, tx.Error
}

// SumByUserID returns the sum of the grants minus the sum of the revokes of a user.
func (r *pointHistoryRepository) SumByUserID(ctx context.Context, userID uint64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.PointHistory{}).
		Select("COALESCE(SUM(CASE WHEN activity_type = ? THEN -point ELSE point END), 0)", entity.PointRevoke).
		Where("user_id=?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
