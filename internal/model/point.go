package model

import "time"

type PointHistory struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	PriceID      *uint64   `json:"price_id,omitempty"`
	Point        int64     `json:"point"`
	Datetime     time.Time `json:"datetime"`
	Note         string    `json:"note"`
}

type GrantPointRequest struct {
	UserID       uint64  `json:"user_id"`
	PriceID      *uint64 `json:"price_id"`
	Point        int64   `json:"point"`
	Note         string  `json:"note"`
	ActivityType string  `json:"activity_type"`
}

type GrantPointResponse struct {
	HistoryID uint64 `json:"history_id"`
}

type UpdatePointRequest struct {
	ID    uint64 `json:"id"`
	Point int64  `json:"point"`
	Note  string `json:"note"`
}

type UpdatePointResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type DeletePointRequest struct {
	ID uint64 `json:"id"`
}

type DeletePointResponse struct {
	AffectedRows int64 `json:"affected_rows"`
}

type GetPointHistoryRequest struct {
	UserID uint64 `form:"user_id"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type GetPointHistoryResponse struct {
	Histories []PointHistory `json:"histories"`
	Balance   int64          `json:"balance"`
}

type ResyncPointRequest struct {
	UserID uint64 `json:"user_id"`
}

type ResyncPointResponse struct {
	Balance int64 `json:"balance"`
}
