package model

import "time"

type Report struct {
	ID         uint64    `json:"id"`
	ReporterID uint64    `json:"reporter_id"`
	PriceID    uint64    `json:"price_id"`
	Reason     string    `json:"reason"`
	Datetime   time.Time `json:"datetime"`
}

type UpdateReportRequest struct {
	ID     uint64 `json:"id"`
	Reason string `json:"reason"`
}

type UpdateReportResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type DeleteReportRequest struct {
	ID uint64 `json:"id"`
}

type DeleteReportResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type GetListReportRequest struct {
	PriceID uint64 `form:"price_id"`
}

type GetListReportResponse struct {
	Reports []Report `json:"reports"`
}
