package repository

import (
	"context"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id uint64) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error)
	GetIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error)
	IncreasePoint(ctx context.Context, id uint64, delta int64) error
	UpdatePoint(ctx context.Context, id uint64, point int64) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id=?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetIDs returns at most limit user ids greater than afterID in ascending order.
func (r *userRepository) GetIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	result := []uint64{}
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) IncreasePoint(ctx context.Context, id uint64, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("point", gorm.Expr("point + ?", delta))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 0 {
		return nil
	}

	// Without clientFoundRows, MySQL counts only changed rows, so a zero delta reports
	// nothing even when the user exists.
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) UpdatePoint(ctx context.Context, id uint64, point int64) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("point", point).Error
}
