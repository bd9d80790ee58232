package entity

import (
	"time"

	"github.com/vinopick/backend/pkg/enum"
)

type ActivityType string

var (
	// PriceReward grants points, typically for an approved price.
	PriceReward = enum.New(ActivityType("price_reward"), "price_reward")

	// PointRevoke takes points back from a user.
	PointRevoke = enum.New(ActivityType("point_revoke"), "point_revoke")
)

// PointHistory is one ledger row. Rows tied to a price are unique per activity type, so a
// price has at most one reward row.
type PointHistory struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	UserID       uint64       `gorm:"index"`
	ActivityType ActivityType `gorm:"size:24;uniqueIndex:idx_point_histories_foreign_activity,priority:2"`
	ForeignKey   *uint64      `gorm:"uniqueIndex:idx_point_histories_foreign_activity,priority:1"`

	// Point is a non-negative magnitude; the sign comes from ActivityType.
	Point    int64
	Datetime time.Time
	Note     string
}

// SignedPoint returns the effect of the row on the balance of its user.
func (h PointHistory) SignedPoint() int64 {
	if h.ActivityType == PointRevoke {
		return -h.Point
	}

	return h.Point
}
