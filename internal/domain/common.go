package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinopick/backend/internal/common"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/pubsub"
	"github.com/vinopick/backend/pkg/xcontext"
	"github.com/vinopick/backend/pkg/xredis"
	"gorm.io/gorm"
)

// parseOptionalID parses a raw id of a query string. An empty string means the dimension
// is absent.
func parseOptionalID(name, raw string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid %s", name)
	}

	return &id, nil
}

func normalizeLimit(ctx context.Context, limit int) (int, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		return cfg.DefaultLimit, nil
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > cfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	return limit, nil
}

// storeError converts an error of the persistence layer. Driver messages are logged but
// never returned to the client.
func storeError(ctx context.Context, err error, notFoundMsg, msg string) error {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.New(errorx.NotFound, notFoundMsg)
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.New(errorx.Internal, msg)
}

// lockPrice takes the distributed lock of a price when a locker is configured. The lock
// narrows the window of concurrent reviews; the row lock taken inside the transaction stays
// authoritative, so a broken Redis only logs a warning.
func lockPrice(ctx context.Context, locker xredis.Locker, priceID uint64) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}

	key := common.PriceLockKey(priceID)
	token, err := locker.Lock(ctx, key, xcontext.Configs(ctx).Redis.LockTTL)
	if err != nil {
		if errors.Is(err, xredis.ErrLocked) {
			return nil, errorx.New(errorx.Unavailable, "The price is being reviewed by another reviewer")
		}

		xcontext.Logger(ctx).Warnf("Cannot lock price %d: %v", priceID, err)
		return func() {}, nil
	}

	return func() {
		if err := locker.Unlock(context.Background(), key, token); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unlock price %d: %v", priceID, err)
		}
	}, nil
}

type reviewEvent struct {
	PriceID    uint64    `json:"price_id"`
	WriterID   uint64    `json:"writer_id"`
	ReviewerID uint64    `json:"reviewer_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Point      int64     `json:"point,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Deleted    bool      `json:"deleted,omitempty"`
	Time       time.Time `json:"time"`
}

// publishReviewEvent notifies the writer of a price. Delivery is best effort: a failure is
// logged and never undoes the review.
func publishReviewEvent(ctx context.Context, publisher pubsub.Publisher, event reviewEvent) {
	if publisher == nil {
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal review event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Review.NotificationTopic
	pack := &pubsub.Pack{Key: []byte(uuid.NewString()), Msg: b}
	if err := publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish review event of price %d: %v", event.PriceID, err)
	}
}
