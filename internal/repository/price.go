package repository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceFilter holds the listing options of prices. Every field is optional and independent
// of the others, except Statuses: an empty Statuses matches no row.
type PriceFilter struct {
	WineID       *uint64
	ShopID       *uint64
	WriterID     *uint64
	ReporterID   *uint64
	ExcludeAdmin bool
	Search       string
	OnlyReported bool
	Statuses     []entity.PriceStatus
	LastRowIndex *uint64
	Limit        int
}

type predicate struct {
	query string
	args  []any
}

func (f *PriceFilter) predicates() []predicate {
	result := []predicate{}
	add := func(query string, args ...any) {
		result = append(result, predicate{query: query, args: args})
	}

	if len(f.Statuses) == 0 {
		add("1 = 0")
	} else {
		add("wine_prices.status IN (?)", f.Statuses)
	}

	if f.WineID != nil {
		add("wine_prices.wine_id = ?", *f.WineID)
	}

	if f.ShopID != nil {
		add("wine_prices.shop_id = ?", *f.ShopID)
	}

	if f.WriterID != nil {
		add("wine_prices.writer_id = ?", *f.WriterID)
	}

	if f.ExcludeAdmin {
		add("(users.role IS NULL OR users.role <> ?)", entity.RoleAdmin)
	}

	if search := entity.NormalizeSearchText(f.Search); search != "" {
		add("wines.search_text LIKE ? ESCAPE '!'", "%"+escapeLike(search)+"%")
	}

	if f.OnlyReported {
		add("reports.id IS NOT NULL")
	}

	if f.ReporterID != nil {
		add("reports.reporter_id = ?", *f.ReporterID)
	}

	if f.LastRowIndex != nil {
		add("wine_prices.id < ?", *f.LastRowIndex)
	}

	return result
}

// PriceRow is a price joined with its shop, wine, writer, active report and active reward.
type PriceRow struct {
	ID                   uint64
	WineID               uint64
	ShopID               uint64
	WriterID             uint64
	Status               entity.PriceStatus
	Price                decimal.Decimal
	FinalPrice           decimal.Decimal
	Currency             string
	Point                int64
	ShowWineDetailPage   bool
	ShowSpecialPricePage bool
	StockCount           int
	Receipt              bool
	Comment              string
	SaleInfo             string
	Registered           time.Time

	ShopName        *string
	ShopBranch      *string
	WineName        *string
	WineEnglishName *string
	Winery          *string
	WineStatus      *string
	WriterNickname  *string
	WriterRole      *string

	ReportID       *uint64
	ReporterID     *uint64
	ReportReason   *string
	ReportDatetime *time.Time
	RewardID       *uint64
	RewardPoint    *int64
	RewardNote     *string
	RewardDatetime *time.Time
}

const priceRowColumns = `wine_prices.id, wine_prices.wine_id, wine_prices.shop_id, wine_prices.writer_id,
wine_prices.status, wine_prices.price, wine_prices.final_price, wine_prices.currency, wine_prices.point,
wine_prices.show_wine_detail_page, wine_prices.show_special_price_page, wine_prices.stock_count,
wine_prices.receipt, wine_prices.comment, wine_prices.sale_info, wine_prices.registered,
shops.name AS shop_name, shops.branch AS shop_branch,
wines.name AS wine_name, wines.english_name AS wine_english_name, wines.winery AS winery, wines.status AS wine_status,
users.nickname AS writer_nickname, users.role AS writer_role,
reports.id AS report_id, reports.reporter_id AS reporter_id, reports.reason AS report_reason, reports.datetime AS report_datetime,
point_histories.id AS reward_id, point_histories.point AS reward_point, point_histories.note AS reward_note,
point_histories.datetime AS reward_datetime`

type PriceRepository interface {
	Create(ctx context.Context, data *entity.WinePrice) error
	GetByID(ctx context.Context, id uint64) (*entity.WinePrice, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.WinePrice, error)
	GetRowByID(ctx context.Context, id uint64) (*PriceRow, error)
	GetList(ctx context.Context, filter PriceFilter) ([]PriceRow, error)
	CountByStatus(ctx context.Context, statuses ...entity.PriceStatus) (int64, error)
	CountByWineID(ctx context.Context, wineID uint64) (int64, error)
	UpdateStatus(ctx context.Context, id uint64, status entity.PriceStatus) (int64, error)
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) (int64, error)
	DeleteByID(ctx context.Context, id uint64) (int64, error)
}

type priceRepository struct{}

func NewPriceRepository() PriceRepository {
	return &priceRepository{}
}

func (r *priceRepository) Create(ctx context.Context, data *entity.WinePrice) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(data).Error
}

func (r *priceRepository) GetByID(ctx context.Context, id uint64) (*entity.WinePrice, error) {
	var result entity.WinePrice
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *priceRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.WinePrice, error) {
	var result entity.WinePrice
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *priceRepository) joined(ctx context.Context) *gorm.DB {
	return xcontext.DB(ctx).
		Table("wine_prices").
		Select(priceRowColumns).
		Joins("LEFT JOIN shops ON shops.id = wine_prices.shop_id").
		Joins("LEFT JOIN wines ON wines.id = wine_prices.wine_id").
		Joins("LEFT JOIN users ON users.id = wine_prices.writer_id").
		Joins("LEFT JOIN (SELECT price_id, MAX(id) AS id FROM reports GROUP BY price_id) AS latest_reports ON latest_reports.price_id = wine_prices.id").
		Joins("LEFT JOIN reports ON reports.id = latest_reports.id").
		Joins("LEFT JOIN point_histories ON point_histories.foreign_key = wine_prices.id AND point_histories.activity_type = ?",
			entity.PriceReward)
}

func (r *priceRepository) GetRowByID(ctx context.Context, id uint64) (*PriceRow, error) {
	var result PriceRow
	if err := r.joined(ctx).Where("wine_prices.id = ?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *priceRepository) GetList(ctx context.Context, filter PriceFilter) ([]PriceRow, error) {
	tx := r.joined(ctx)
	for _, p := range filter.predicates() {
		tx = tx.Where(p.query, p.args...)
	}

	if filter.LastRowIndex != nil {
		tx = tx.Order("wine_prices.id DESC")
	} else {
		tx = tx.Order("wine_prices.registered DESC").Order("wine_prices.id DESC")
	}

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	result := []PriceRow{}
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *priceRepository) CountByStatus(ctx context.Context, statuses ...entity.PriceStatus) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.WinePrice{}).
		Where("status IN (?)", statuses).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *priceRepository) CountByWineID(ctx context.Context, wineID uint64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.WinePrice{}).
		Where("wine_id=?", wineID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *priceRepository) UpdateStatus(ctx context.Context, id uint64, status entity.PriceStatus) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.WinePrice{}).
		Where("id=?", id).
		Update("status", status)
	return tx.RowsAffected, tx.Error
}

func (r *priceRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.WinePrice{}).
		Where("id=?", id).
		Updates(fields)
	return tx.RowsAffected, tx.Error
}

func (r *priceRepository) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	tx := xcontext.DB(ctx).Delete(&entity.WinePrice{}, "id=?", id)
	return tx.RowsAffected, tx.Error
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes s match literally inside a LIKE pattern using '!' as escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
