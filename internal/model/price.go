package model

import "time"

type Price struct {
	ID                   uint64    `json:"id"`
	WineID               uint64    `json:"wine_id"`
	ShopID               uint64    `json:"shop_id"`
	WriterID             uint64    `json:"writer_id"`
	Status               string    `json:"status"`
	Price                string    `json:"price"`
	FinalPrice           string    `json:"final_price"`
	Currency             string    `json:"currency"`
	Point                int64     `json:"point"`
	ShowWineDetailPage   bool      `json:"show_wine_detail_page"`
	ShowSpecialPricePage bool      `json:"show_special_price_page"`
	StockCount           int       `json:"stock_count"`
	Receipt              bool      `json:"receipt"`
	Comment              string    `json:"comment"`
	SaleInfo             string    `json:"sale_info"`
	Registered           time.Time `json:"registered"`

	Shop   *Shop   `json:"shop,omitempty"`
	Wine   *Wine   `json:"wine,omitempty"`
	Writer *Writer `json:"writer,omitempty"`
	Report *Report `json:"report,omitempty"`
	Reward *Reward `json:"reward,omitempty"`
}

type Shop struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

type Wine struct {
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
	Winery      string `json:"winery"`
	Status      string `json:"status"`
}

type Writer struct {
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

type Reward struct {
	ID       uint64    `json:"id"`
	Point    int64     `json:"point"`
	Note     string    `json:"note"`
	Datetime time.Time `json:"datetime"`
}

type GetListPriceRequest struct {
	WineID               string `form:"wine_id"`
	ShopID               string `form:"shop_id"`
	WriterID             string `form:"writer_id"`
	ReporterID           string `form:"reporter_id"`
	ExcludeAdmin         bool   `form:"exclude_admin"`
	Search               string `form:"search"`
	OnlyReported         bool   `form:"only_reported"`
	ShowPassed           bool   `form:"show_passed"`
	ShowWaiting          bool   `form:"show_waiting"`
	ShowRejected         bool   `form:"show_rejected"`
	ShowDeleted          bool   `form:"show_deleted"`
	ShowPassBeforeReview bool   `form:"show_pass_before_review"`
	LastRowIndex         string `form:"last_row_index"`
	Limit                int    `form:"limit"`
}

type GetListPriceResponse struct {
	Prices []Price `json:"prices"`
}

type GetPriceRequest struct {
	ID uint64 `form:"id"`
}

type GetPriceResponse Price

type GetPendingCountRequest struct{}

type GetPendingCountResponse struct {
	Count int64 `json:"count"`
}

type CreatePriceRequest struct {
	WineID               uint64 `json:"wine_id"`
	ShopID               uint64 `json:"shop_id"`
	Price                string `json:"price"`
	FinalPrice           string `json:"final_price"`
	Currency             string `json:"currency"`
	Point                int64  `json:"point"`
	ShowWineDetailPage   bool   `json:"show_wine_detail_page"`
	ShowSpecialPricePage bool   `json:"show_special_price_page"`
	StockCount           int    `json:"stock_count"`
	Receipt              bool   `json:"receipt"`
	Comment              string `json:"comment"`
	SaleInfo             string `json:"sale_info"`

	// PassBeforeReview publishes the price right away while keeping it in the review queue.
	PassBeforeReview bool `json:"pass_before_review"`
}

type CreatePriceResponse struct {
	ID uint64 `json:"id"`
}

type UpdatePriceRequest struct {
	ID                   uint64 `json:"id"`
	StockCount           *int   `json:"stock_count"`
	ShowWineDetailPage   *bool  `json:"show_wine_detail_page"`
	ShowSpecialPricePage *bool  `json:"show_special_price_page"`
	Receipt              *bool  `json:"receipt"`
	Point                *int64 `json:"point"`
}

type UpdatePriceResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type ChangePriceStatusRequest struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
	Point  *int64 `json:"point"`
	Note   string `json:"note"`
}

type ChangePriceStatusResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type RejectPriceRequest struct {
	ID     uint64 `json:"id"`
	Reason string `json:"reason"`
}

type RejectPriceResponse struct {
	ReportID uint64 `json:"report_id"`
}

type DeletePriceRequest struct {
	ID     uint64 `json:"id"`
	WineID uint64 `json:"wine_id"`
}

type DeletePriceResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}
