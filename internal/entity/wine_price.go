package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vinopick/backend/pkg/enum"
)

type PriceStatus string

var (
	PriceWaiting          = enum.New(PriceStatus("WAITING"), "WAITING")
	PricePassBeforeReview = enum.New(PriceStatus("PASS_BEFORE_REVIEW"), "PASS_BEFORE_REVIEW")
	PricePass             = enum.New(PriceStatus("PASS"), "PASS")
	PriceReject           = enum.New(PriceStatus("REJECT"), "REJECT")

	// PriceDeleted is kept for rows soft-deleted by older tooling. Prices are removed
	// physically by this service.
	PriceDeleted = enum.New(PriceStatus("DELETED"), "DELETED")
)

// PendingPriceStatuses are the statuses that need the attention of a reviewer.
var PendingPriceStatuses = []PriceStatus{PriceWaiting, PricePassBeforeReview}

// WinePrice is a crowd-submitted price listing of a wine in a shop.
type WinePrice struct {
	Base

	WineID uint64 `gorm:"index"`
	Wine   Wine   `gorm:"foreignKey:WineID"`

	ShopID uint64 `gorm:"index"`
	Shop   Shop   `gorm:"foreignKey:ShopID"`

	WriterID uint64 `gorm:"index"`
	Writer   User   `gorm:"foreignKey:WriterID"`

	Status PriceStatus `gorm:"size:24;index"`

	Price      decimal.Decimal `gorm:"type:decimal(14,2)"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(14,2)"`
	Currency   string          `gorm:"size:3"`

	// Point is the number of points needed to unlock the listing. It is unrelated to the
	// reward points of the writer.
	Point int64

	ShowWineDetailPage   bool
	ShowSpecialPricePage bool
	StockCount           int
	Receipt              bool
	Comment              string
	SaleInfo             string

	Registered time.Time `gorm:"index"`
}
