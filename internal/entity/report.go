package entity

import "time"

// Report is a rejection reason of a price. A price keeps all of its reports; the one with
// the greatest ID is the active reason.
type Report struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	ReporterID uint64
	PriceID    uint64 `gorm:"index"`
	Reason     string
	Datetime   time.Time
}
