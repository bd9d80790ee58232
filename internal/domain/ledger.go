package domain

import (
	"context"
	"time"

	"github.com/vinopick/backend/internal/common"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/xcontext"
)

const (
	resyncOnUpdate = "update"
	resyncOnDelete = "delete"
	resyncManual   = "manual"
	resyncBatch    = "batch"
)

// pointLedger keeps users.point equal to the signed sum of the user's point histories. Every
// method must run inside the transaction of the caller.
type pointLedger struct {
	historyRepo repository.PointHistoryRepository
	userRepo    repository.UserRepository
}

func newPointLedger(
	historyRepo repository.PointHistoryRepository,
	userRepo repository.UserRepository,
) *pointLedger {
	return &pointLedger{historyRepo: historyRepo, userRepo: userRepo}
}

// grant inserts a brand new history row and applies its signed point to the balance. It is
// the only path allowed to use a delta.
func (l *pointLedger) grant(
	ctx context.Context,
	userID uint64,
	activity entity.ActivityType,
	priceID *uint64,
	point int64,
	note string,
) (*entity.PointHistory, error) {
	history := &entity.PointHistory{
		UserID:       userID,
		ActivityType: activity,
		ForeignKey:   priceID,
		Point:        point,
		Datetime:     time.Now(),
		Note:         note,
	}

	if err := l.historyRepo.Create(ctx, history); err != nil {
		return nil, err
	}

	if err := l.userRepo.IncreasePoint(ctx, userID, history.SignedPoint()); err != nil {
		return nil, err
	}

	return history, nil
}

// update overwrites the point and note of an existing row, then resyncs its owner.
func (l *pointLedger) update(ctx context.Context, history *entity.PointHistory, point int64, note string) (int64, error) {
	affected, err := l.historyRepo.UpdateByID(ctx, history.ID, point, note)
	if err != nil {
		return 0, err
	}

	if _, err := l.resync(ctx, history.UserID, resyncOnUpdate); err != nil {
		return 0, err
	}

	return affected, nil
}

// remove deletes a row, then resyncs its owner.
func (l *pointLedger) remove(ctx context.Context, history *entity.PointHistory) (int64, error) {
	affected, err := l.historyRepo.DeleteByID(ctx, history.ID)
	if err != nil {
		return 0, err
	}

	if _, err := l.resync(ctx, history.UserID, resyncOnDelete); err != nil {
		return 0, err
	}

	return affected, nil
}

// resync recomputes the balance of a user from the history and overwrites the cached value.
func (l *pointLedger) resync(ctx context.Context, userID uint64, trigger string) (int64, error) {
	user, err := l.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return 0, err
	}

	balance, err := l.historyRepo.SumByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := l.userRepo.UpdatePoint(ctx, userID, balance); err != nil {
		return 0, err
	}

	common.PromCounters[common.PointResyncTotal].WithLabelValues(trigger).Inc()
	if user.Point != balance && (trigger == resyncManual || trigger == resyncBatch) {
		common.PromCounters[common.PointResyncDriftTotal].WithLabelValues(trigger).Inc()
		xcontext.Logger(ctx).Warnf("Balance of user %d drifted from %d to %d", userID, user.Point, balance)
	}

	return balance, nil
}
