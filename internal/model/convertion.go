package model

import (
	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

func ConvertPriceRow(r *repository.PriceRow) Price {
	result := Price{
		ID:                   r.ID,
		WineID:               r.WineID,
		ShopID:               r.ShopID,
		WriterID:             r.WriterID,
		Status:               string(r.Status),
		Price:                r.Price.StringFixed(2),
		FinalPrice:           r.FinalPrice.StringFixed(2),
		Currency:             r.Currency,
		Point:                r.Point,
		ShowWineDetailPage:   r.ShowWineDetailPage,
		ShowSpecialPricePage: r.ShowSpecialPricePage,
		StockCount:           r.StockCount,
		Receipt:              r.Receipt,
		Comment:              r.Comment,
		SaleInfo:             r.SaleInfo,
		Registered:           r.Registered,
	}

	if r.ShopName != nil {
		result.Shop = &Shop{Name: *r.ShopName, Branch: deref(r.ShopBranch)}
	}

	if r.WineName != nil {
		result.Wine = &Wine{
			Name:        *r.WineName,
			EnglishName: deref(r.WineEnglishName),
			Winery:      deref(r.Winery),
			Status:      deref(r.WineStatus),
		}
	}

	if r.WriterNickname != nil || r.WriterRole != nil {
		result.Writer = &Writer{Nickname: deref(r.WriterNickname), Role: deref(r.WriterRole)}
	}

	if r.ReportID != nil {
		result.Report = &Report{
			ID:         *r.ReportID,
			ReporterID: deref(r.ReporterID),
			PriceID:    r.ID,
			Reason:     deref(r.ReportReason),
			Datetime:   deref(r.ReportDatetime),
		}
	}

	if r.RewardID != nil {
		result.Reward = &Reward{
			ID:       *r.RewardID,
			Point:    deref(r.RewardPoint),
			Note:     deref(r.RewardNote),
			Datetime: deref(r.RewardDatetime),
		}
	}

	return result
}

func ConvertReport(r *entity.Report) Report {
	return Report{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		PriceID:    r.PriceID,
		Reason:     r.Reason,
		Datetime:   r.Datetime,
	}
}

func ConvertPointHistory(h *entity.PointHistory) PointHistory {
	return PointHistory{
		ID:           h.ID,
		UserID:       h.UserID,
		ActivityType: string(h.ActivityType),
		PriceID:      h.ForeignKey,
		Point:        h.Point,
		Datetime:     h.Datetime,
		Note:         h.Note,
	}
}
