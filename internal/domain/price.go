package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vinopick/backend/internal/common"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/model"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/enum"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/pubsub"
	"github.com/vinopick/backend/pkg/xcontext"
	"github.com/vinopick/backend/pkg/xredis"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type PriceDomain interface {
	GetList(context.Context, *model.GetListPriceRequest) (*model.GetListPriceResponse, error)
	Get(context.Context, *model.GetPriceRequest) (*model.GetPriceResponse, error)
	GetPendingCount(context.Context, *model.GetPendingCountRequest) (*model.GetPendingCountResponse, error)
	Create(context.Context, *model.CreatePriceRequest) (*model.CreatePriceResponse, error)
	Update(context.Context, *model.UpdatePriceRequest) (*model.UpdatePriceResponse, error)
	ChangeStatus(context.Context, *model.ChangePriceStatusRequest) (*model.ChangePriceStatusResponse, error)
	Reject(context.Context, *model.RejectPriceRequest) (*model.RejectPriceResponse, error)
	Delete(context.Context, *model.DeletePriceRequest) (*model.DeletePriceResponse, error)
}

type priceDomain struct {
	priceRepo   repository.PriceRepository
	historyRepo repository.PointHistoryRepository
	reportRepo  repository.ReportRepository
	wineRepo    repository.WineRepository
	shopRepo    repository.ShopRepository
	ledger      *pointLedger
	locker      xredis.Locker
	publisher   pubsub.Publisher
}

// NewPriceDomain builds the review domain. locker may be nil when Redis is not deployed.
func NewPriceDomain(
	priceRepo repository.PriceRepository,
	historyRepo repository.PointHistoryRepository,
	reportRepo repository.ReportRepository,
	wineRepo repository.WineRepository,
	shopRepo repository.ShopRepository,
	userRepo repository.UserRepository,
	locker xredis.Locker,
	publisher pubsub.Publisher,
) PriceDomain {
	return &priceDomain{
		priceRepo:   priceRepo,
		historyRepo: historyRepo,
		reportRepo:  reportRepo,
		wineRepo:    wineRepo,
		shopRepo:    shopRepo,
		ledger:      newPointLedger(historyRepo, userRepo),
		locker:      locker,
		publisher:   publisher,
	}
}

func (d *priceDomain) GetList(
	ctx context.Context, req *model.GetListPriceRequest,
) (*model.GetListPriceResponse, error) {
	filter := repository.PriceFilter{
		ExcludeAdmin: req.ExcludeAdmin,
		Search:       req.Search,
		OnlyReported: req.OnlyReported,
	}

	var err error
	if filter.WineID, err = parseOptionalID("wine_id", req.WineID); err != nil {
		return nil, err
	}

	if filter.ShopID, err = parseOptionalID("shop_id", req.ShopID); err != nil {
		return nil, err
	}

	if filter.WriterID, err = parseOptionalID("writer_id", req.WriterID); err != nil {
		return nil, err
	}

	if filter.ReporterID, err = parseOptionalID("reporter_id", req.ReporterID); err != nil {
		return nil, err
	}

	if filter.LastRowIndex, err = parseOptionalID("last_row_index", req.LastRowIndex); err != nil {
		return nil, err
	}

	if filter.Limit, err = normalizeLimit(ctx, req.Limit); err != nil {
		return nil, err
	}

	flags := []struct {
		on     bool
		status entity.PriceStatus
	}{
		{req.ShowPassed, entity.PricePass},
		{req.ShowWaiting, entity.PriceWaiting},
		{req.ShowRejected, entity.PriceReject},
		{req.ShowDeleted, entity.PriceDeleted},
		{req.ShowPassBeforeReview, entity.PricePassBeforeReview},
	}
	for _, f := range flags {
		if f.on {
			filter.Statuses = append(filter.Statuses, f.status)
		}
	}

	rows, err := d.priceRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of prices: %v", err)
		return nil, errorx.Unknown
	}

	prices := make([]model.Price, 0, len(rows))
	for i := range rows {
		prices = append(prices, model.ConvertPriceRow(&rows[i]))
	}

	return &model.GetListPriceResponse{Prices: prices}, nil
}

func (d *priceDomain) Get(ctx context.Context, req *model.GetPriceRequest) (*model.GetPriceResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	row, err := d.priceRepo.GetRowByID(ctx, req.ID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found price", "Cannot get price")
	}

	resp := model.GetPriceResponse(model.ConvertPriceRow(row))
	return &resp, nil
}

func (d *priceDomain) GetPendingCount(
	ctx context.Context, req *model.GetPendingCountRequest,
) (*model.GetPendingCountResponse, error) {
	count, err := d.priceRepo.CountByStatus(ctx, entity.PendingPriceStatuses...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count pending prices: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPendingCountResponse{Count: count}, nil
}

func parseMoney(name, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errorx.New(errorx.BadRequest, "Invalid %s", name)
	}

	if value.IsNegative() {
		return decimal.Zero, errorx.New(errorx.BadRequest, "%s must be non-negative", name)
	}

	return value, nil
}

func (d *priceDomain) Create(ctx context.Context, req *model.CreatePriceRequest) (*model.CreatePriceResponse, error) {
	if req.WineID == 0 || req.ShopID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require wine_id and shop_id")
	}

	price, err := parseMoney("price", req.Price)
	if err != nil {
		return nil, err
	}

	finalPrice := price
	if req.FinalPrice != "" {
		if finalPrice, err = parseMoney("final_price", req.FinalPrice); err != nil {
			return nil, err
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, errorx.New(errorx.BadRequest, "Currency must be an ISO 4217 code")
	}

	if req.Point < 0 || req.StockCount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Point and stock count must be non-negative")
	}

	if _, err := d.wineRepo.GetByID(ctx, req.WineID); err != nil {
		return nil, storeError(ctx, err, "Not found wine", "Cannot get wine")
	}

	if _, err := d.shopRepo.GetByID(ctx, req.ShopID); err != nil {
		return nil, storeError(ctx, err, "Not found shop", "Cannot get shop")
	}

	status := entity.PriceWaiting
	if req.PassBeforeReview {
		status = entity.PricePassBeforeReview
	}

	winePrice := &entity.WinePrice{
		WineID:               req.WineID,
		ShopID:               req.ShopID,
		WriterID:             xcontext.RequestUserID(ctx),
		Status:               status,
		Price:                price,
		FinalPrice:           finalPrice,
		Currency:             currency,
		Point:                req.Point,
		ShowWineDetailPage:   req.ShowWineDetailPage,
		ShowSpecialPricePage: req.ShowSpecialPricePage,
		StockCount:           req.StockCount,
		Receipt:              req.Receipt,
		Comment:              req.Comment,
		SaleInfo:             req.SaleInfo,
		Registered:           time.Now(),
	}

	if err := d.priceRepo.Create(ctx, winePrice); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create price: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot create price")
	}

	return &model.CreatePriceResponse{ID: winePrice.ID}, nil
}

func (d *priceDomain) Update(ctx context.Context, req *model.UpdatePriceRequest) (*model.UpdatePriceResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	fields := map[string]any{}
	if req.StockCount != nil {
		if *req.StockCount < 0 {
			return nil, errorx.New(errorx.BadRequest, "Stock count must be non-negative")
		}
		fields["stock_count"] = *req.StockCount
	}

	if req.ShowWineDetailPage != nil {
		fields["show_wine_detail_page"] = *req.ShowWineDetailPage
	}

	if req.ShowSpecialPricePage != nil {
		fields["show_special_price_page"] = *req.ShowSpecialPricePage
	}

	if req.Receipt != nil {
		fields["receipt"] = *req.Receipt
	}

	if req.Point != nil {
		if *req.Point < 0 {
			return nil, errorx.New(errorx.BadRequest, "Point must be non-negative")
		}
		fields["point"] = *req.Point
	}

	if len(fields) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	affected, err := d.priceRepo.UpdateFields(ctx, req.ID, fields)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update price: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot update price")
	}

	if affected == 0 {
		return nil, errorx.New(errorx.NotFound, "Not found price")
	}

	return &model.UpdatePriceResponse{AffectedRows: affected}, nil
}

func (d *priceDomain) ChangeStatus(
	ctx context.Context, req *model.ChangePriceStatusRequest,
) (*model.ChangePriceStatusResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	status, err := enum.ToEnum[entity.PriceStatus](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	in := reviewInput{target: status, point: req.Point, note: req.Note}
	switch status {
	case entity.PricePass:
		in.action = actionApprove
	case entity.PriceWaiting, entity.PricePassBeforeReview:
		in.action = actionHold
	case entity.PriceReject:
		return nil, errorx.New(errorx.BadRequest, "A rejection requires a reason, use rejectPrice")
	default:
		return nil, errorx.New(errorx.BadRequest, "Prices are deleted physically, use deletePrice")
	}

	result, err := d.review(ctx, req.ID, in)
	if err != nil {
		return nil, err
	}

	return &model.ChangePriceStatusResponse{AffectedRows: result.affectedRows}, nil
}

func (d *priceDomain) Reject(ctx context.Context, req *model.RejectPriceRequest) (*model.RejectPriceResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	result, err := d.review(ctx, req.ID, reviewInput{
		action: actionReject,
		target: entity.PriceReject,
		reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return nil, err
	}

	return &model.RejectPriceResponse{ReportID: result.reportID}, nil
}

type reviewResult struct {
	affectedRows int64
	reportID     uint64
}

// review runs one transition: lock, read the state, plan, then apply the plan in a single
// transaction whose last write is the status.
func (d *priceDomain) review(ctx context.Context, priceID uint64, in reviewInput) (*reviewResult, error) {
	if err := validateReviewInput(in); err != nil {
		return nil, err
	}

	unlock, err := lockPrice(ctx, d.locker, priceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx, err = xcontext.WithDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin transaction: %v", err)
		return nil, errorx.Unknown
	}
	defer xcontext.RollbackDBTransaction(ctx)

	price, err := d.priceRepo.GetByIDForUpdate(ctx, priceID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found price", "Cannot get price")
	}

	state, err := d.loadReviewState(ctx, price)
	if err != nil {
		return nil, err
	}

	plan, err := planReview(state, in)
	if err != nil {
		return nil, err
	}

	if plan.noop {
		return &reviewResult{reportID: state.activeReport.ID}, nil
	}

	result, err := d.apply(ctx, price, state, plan)
	if err != nil {
		return nil, storeError(ctx, err, "Not found writer of price", "Cannot review price")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit review: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot review price")
	}

	common.PromCounters[common.ReviewTransitionTotal].
		WithLabelValues(string(state.status), string(plan.status)).Inc()

	publishReviewEvent(ctx, d.publisher, reviewEvent{
		PriceID:    price.ID,
		WriterID:   price.WriterID,
		ReviewerID: xcontext.RequestUserID(ctx),
		From:       string(state.status),
		To:         string(plan.status),
		Point:      plan.point,
		Reason:     plan.reason,
		Time:       time.Now(),
	})

	return result, nil
}

func (d *priceDomain) loadReviewState(ctx context.Context, price *entity.WinePrice) (reviewState, error) {
	state := reviewState{status: price.Status}

	reward, err := d.historyRepo.GetByForeignKey(ctx, price.ID, entity.PriceReward)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get reward of price: %v", err)
		return state, errorx.Unknown
	}
	state.reward = reward

	report, err := d.reportRepo.GetActiveByPriceID(ctx, price.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get active report of price: %v", err)
		return state, errorx.Unknown
	}
	state.activeReport = report

	wine, err := d.wineRepo.GetByID(ctx, price.WineID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get wine of price: %v", err)
			return state, errorx.Unknown
		}
	} else {
		state.wineStatus = wine.Status
	}

	return state, nil
}

func (d *priceDomain) apply(
	ctx context.Context, price *entity.WinePrice, state reviewState, plan reviewPlan,
) (*reviewResult, error) {
	result := &reviewResult{}

	switch plan.ledger {
	case ledgerGrant:
		if _, err := d.ledger.grant(ctx, price.WriterID, entity.PriceReward, &price.ID, plan.point, plan.note); err != nil {
			return nil, err
		}
	case ledgerUpdate:
		if _, err := d.ledger.update(ctx, state.reward, plan.point, plan.note); err != nil {
			return nil, err
		}
	case ledgerForfeit:
		if _, err := d.ledger.remove(ctx, state.reward); err != nil {
			return nil, err
		}
	}

	switch plan.report {
	case reportInsert:
		report := &entity.Report{
			ReporterID: xcontext.RequestUserID(ctx),
			PriceID:    price.ID,
			Reason:     plan.reason,
			Datetime:   time.Now(),
		}
		if err := d.reportRepo.Create(ctx, report); err != nil {
			return nil, err
		}
		result.reportID = report.ID
	case reportClear:
		if _, err := d.reportRepo.DeleteByPriceID(ctx, price.ID); err != nil {
			return nil, err
		}
	}

	if plan.wine == wineDowngrade {
		if err := d.wineRepo.UpdateStatus(ctx, price.WineID, entity.WineIncomplete); err != nil {
			return nil, err
		}
	}

	affected, err := d.priceRepo.UpdateStatus(ctx, price.ID, plan.status)
	if err != nil {
		return nil, err
	}
	result.affectedRows = affected

	return result, nil
}

func (d *priceDomain) Delete(ctx context.Context, req *model.DeletePriceRequest) (*model.DeletePriceResponse, error) {
	if req.ID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	unlock, err := lockPrice(ctx, d.locker, req.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx, err = xcontext.WithDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin transaction: %v", err)
		return nil, errorx.Unknown
	}
	defer xcontext.RollbackDBTransaction(ctx)

	price, err := d.priceRepo.GetByIDForUpdate(ctx, req.ID)
	if err != nil {
		return nil, storeError(ctx, err, "Not found price", "Cannot get price")
	}

	if req.WineID != 0 && req.WineID != price.WineID {
		return nil, errorx.New(errorx.BadRequest, "The price does not belong to wine %d", req.WineID)
	}

	affected, err := d.cascadeDelete(ctx, price)
	if err != nil {
		return nil, storeError(ctx, err, "Not found price", "Cannot delete price")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit deletion: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot delete price")
	}

	common.PromCounters[common.ReviewTransitionTotal].
		WithLabelValues(string(price.Status), string(entity.PriceDeleted)).Inc()

	publishReviewEvent(ctx, d.publisher, reviewEvent{
		PriceID:    price.ID,
		WriterID:   price.WriterID,
		ReviewerID: xcontext.RequestUserID(ctx),
		From:       string(price.Status),
		Deleted:    true,
		Time:       time.Now(),
	})

	return &model.DeletePriceResponse{AffectedRows: affected}, nil
}

func (d *priceDomain) cascadeDelete(ctx context.Context, price *entity.WinePrice) (int64, error) {
	histories, err := d.historyRepo.GetListByForeignKey(ctx, price.ID)
	if err != nil {
		return 0, err
	}

	if _, err := d.historyRepo.DeleteByForeignKey(ctx, price.ID); err != nil {
		return 0, err
	}

	userIDs := []uint64{}
	for _, h := range histories {
		if !slices.Contains(userIDs, h.UserID) {
			userIDs = append(userIDs, h.UserID)
		}
	}

	// Lock users in a stable order. A removed user has no balance left to fix.
	slices.Sort(userIDs)
	for _, userID := range userIDs {
		_, err := d.ledger.resync(ctx, userID, resyncOnDelete)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
	}

	if _, err := d.reportRepo.DeleteByPriceID(ctx, price.ID); err != nil {
		return 0, err
	}

	affected, err := d.priceRepo.DeleteByID(ctx, price.ID)
	if err != nil {
		return 0, err
	}

	remaining, err := d.priceRepo.CountByWineID(ctx, price.WineID)
	if err != nil {
		return 0, err
	}

	if remaining == 0 {
		wine, err := d.wineRepo.GetByID(ctx, price.WineID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		if err == nil && wine.Status == entity.WineWaiting {
			if err := d.wineRepo.DeleteByID(ctx, wine.ID); err != nil {
				return 0, err
			}
		}
	}

	return affected, nil
}
