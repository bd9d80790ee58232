package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/vinopick/backend/pkg/logger"
	"github.com/vinopick/backend/pkg/router"
	"github.com/vinopick/backend/pkg/xcontext"
)

const requestIDHeader = "X-Request-Id"

type taggedLogger interface {
	With(kv ...any) logger.Logger
}

// RequestID reuses the request id set by a proxy or generates one, and tags the logger of
// the request with it.
func RequestID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		id := xcontext.HTTPRequest(ctx).Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx = xcontext.WithRequestID(ctx, id)
		if l, ok := xcontext.Logger(ctx).(taggedLogger); ok {
			ctx = xcontext.WithLogger(ctx, l.With("request_id", id))
		}

		return ctx, nil
	}
}
