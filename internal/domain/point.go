package domain

import (
	"context"
	"errors"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/enum"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/xcontext"
	"github.com/vinopick/backend/pkg/xredis"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const resyncBatchSize = 500

type PointDomain interface {
	Grant(context.Context, *model.GrantPointRequest) (*model.GrantPointResponse, error)
	Update(context.Context, *model.UpdatePointRequest) (*model.UpdatePointResponse, error)
	Delete(context.Context, *model.DeletePointRequest) (*model.DeletePointResponse, error)
	GetHistory(context.Context, *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
	Resync(context.Context, *model.ResyncPointRequest) (*model.ResyncPointResponse, error)

	// ResyncAll recomputes the balance of every user and returns the number of users.
	ResyncAll(ctx context.Context) (int, error)
}

type pointDomain struct {
	historyRepo repository.PointHistoryRepository
	userRepo    repository.UserRepository
	priceRepo   repository.PriceRepository
	ledger      *pointLedger
	locker      xredis.Locker
}

func NewPointDomain(
	historyRepo repository.PointHistoryRepository,
	userRepo repository.UserRepository,
	priceRepo repository.PriceRepository,
	locker xredis.Locker,
) PointDomain {
	return &pointDomain{
		historyRepo: historyRepo,
		userRepo:    userRepo,
		priceRepo:   priceRepo,
		ledger:      newPointLedger(historyRepo, userRepo),
		locker:      locker,
	}
}

func (d *pointDomain) Grant(ctx context.Context, req *model.GrantPointRequest) (*model.GrantPointResponse, error) {
	if req.UserID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if req.Point < 0 {
		return nil, errorx.New(errorx.BadRequest, "Point must be non-negative")
	}

	activity := entity.PriceReward
	if req.ActivityType != "" {
		var err error
		activity, err = enum.ToEnum[entity.ActivityType](req.ActivityType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid activity type %s", req.ActivityType)
		}
	}

	if req.PriceID != nil {
		if *req.PriceID == 0 {
			return nil, errorx.New(errorx.BadRequest, "Invalid price id")
		}

		unlock, err := lockPrice(ctx, d.locker, *req.PriceID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	ctx, err := xcontext.WithDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin transaction: %v", err)
		return nil, errorx.Unknown
	}
	defer xcontext.RollbackDBTransaction(ctx)

	historyID, err := d.grant(ctx, req, activity)
	if err != nil {
		return nil, storeError(ctx, err, "Not found user or price", "Cannot grant point")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit grant: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot grant point")
	}

	return &model.GrantPointResponse{HistoryID: historyID}, nil
}

// grant inserts a new row, or routes to update when the price already has a row of the same
// activity type.
func (d *pointDomain) grant(ctx context.Context, req *model.GrantPointRequest, activity entity.ActivityType) (uint64, error) {
	if req.PriceID == nil {
		history, err := d.ledger.grant(ctx, req.UserID, activity, nil, req.Point, req.Note)
		if err != nil {
			return 0, err
		}

		return history.ID, nil
	}

	price, err := d.priceRepo.GetByIDForUpdate(ctx, *req.PriceID)
	if err != nil {
		return 0, err
	}

	if activity == entity.PriceReward && price.WriterID != req.UserID {
		return 0, errorx.New(errorx.BadRequest, "The reward of a price belongs to its writer")
	}

	existing, err := d.historyRepo.GetByForeignKey(ctx, price.ID, activity)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if existing != nil {
		if existing.UserID != req.UserID {
			return 0, errorx.New(errorx.AlreadyExists, "The price already has a %s of another user", activity)
		}

		if _, err := d.ledger.update(ctx, existing, req.Point, req.Note); err != nil {
			return 0, err
		}

		return existing.ID, nil
	}

	history, err := d.ledger.grant(ctx, req.UserID, activity, &price.ID, req.Point, req.Note)
	if err != nil {
		return 0, err
	}

	return history.ID, nil
}

func (d *pointDomain) Update(ctx context.Context, req *model.UpdatePointRequest) (*model.UpdatePointResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	if req.Point < 0 {
		return nil, errorx.New(errorx.BadRequest, "Point must be non-negative")
	}

	ctx, err := xcontext.WithDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin transaction: %v", err)
		return nil, errorx.Unknown
	}
	defer xcontext.RollbackDBTransaction(ctx)

	history, err := d.historyRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found point history", "Cannot get point history")
	}

	affected, err := d.ledger.update(ctx, history, req.Point, req.Note)
	if err != nil {
		return nil, storeError(ctx, err, "Not found user", "Cannot update point history")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit point update: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot update point history")
	}

	return &model.UpdatePointResponse{AffectedRows: affected}, nil
}

func (d *pointDomain) Delete(ctx context.Context, req *model.DeletePointRequest) (*model.DeletePointResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	ctx, err := xcontext.WithDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin transaction: %v", err)
		return nil, errorx.Unknown
	}
	defer xcontext.RollbackDBTransaction(ctx)

	history, err := d.historyRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found point history", "Cannot get point history")
	}

	affected, err := d.ledger.remove(ctx, history)
	if err != nil {
		return nil, storeError(ctx, err, "Not found user", "Cannot delete point history")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit point deletion: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot delete point history")
	}

	return &model.DeletePointResponse{AffectedRows: affected}, nil
}

func (d *pointDomain) GetHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	if req.UserID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must be non-negative")
	}

	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found user", "Cannot get user")
	}

	histories, err := d.historyRepo.GetListByUserID(ctx, req.UserID, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point histories: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.PointHistory, 0, len(histories))
	for i := range histories {
		result = append(result, model.ConvertPointHistory(&histories[i]))
	}

	return &model.GetPointHistoryResponse{Histories: result, Balance: user.Point}, nil
}

func (d *pointDomain) Resync(ctx context.Context, req *model.ResyncPointRequest) (*model.ResyncPointResponse, error) {
	if req.UserID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	balance, err := d.resyncInTx(ctx, req.UserID, resyncManual)
	if err != nil {
		return nil, storeError(ctx, err, "Not found user", "Cannot resync point")
	}

	return &model.ResyncPointResponse{Balance: balance}, nil
}

func (d *pointDomain) resyncInTx(ctx context.Context, userID uint64, trigger string) (int64, error) {
	ctx, err := xcontext.WithDBTransaction(ctx)
	if err != nil {
		return 0, err
	}
	defer xcontext.RollbackDBTransaction(ctx)

	balance, err := d.ledger.resync(ctx, userID, trigger)
	if err != nil {
		return 0, err
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		return 0, err
	}

	return balance, nil
}

func (d *pointDomain) ResyncAll(ctx context.Context) (int, error) {
	concurrency := xcontext.Configs(ctx).Review.ResyncConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	total := 0
	afterID := uint64(0)
	for {
		ids, err := d.userRepo.GetIDs(egCtx, afterID, resyncBatchSize)
		if err != nil {
			_ = eg.Wait()
			return total, err
		}

		for _, id := range ids {
			userID := id
			eg.Go(func() error {
				if _, err := d.resyncInTx(egCtx, userID, resyncBatch); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot resync user %d: %v", userID, err)
					return err
				}

				return nil
			})
		}

		total += len(ids)
		if len(ids) < resyncBatchSize {
			break
		}
		afterID = ids[len(ids)-1]
	}

	if err := eg.Wait(); err != nil {
		return total, err
	}

	return total, nil
}
