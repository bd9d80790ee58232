package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := router.befores
	afters := router.afters

	return func(c *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.ctx, c.Request)
		ctx, resp, err := serve(ctx, c, method, befores, handler)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		}

		writeResponse(ctx, c, resp, err)

		for _, closer := range afters {
			closer(ctx)
		}
	}
}

func serve[Request, Response any](
	ctx context.Context,
	c *gin.Context,
	method string,
	befores []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) (context.Context, *Response, error) {
	var err error
	for _, m := range befores {
		ctx, err = m(ctx)
		if err != nil {
			return ctx, nil, err
		}
	}

	var req Request
	switch method {
	case http.MethodGet:
		err = c.ShouldBindQuery(&req)
	case http.MethodPost:
		err = c.ShouldBindJSON(&req)
	default:
		err = errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
	}

	if err != nil {
		if _, ok := err.(errorx.Error); ok {
			return ctx, nil, err
		}

		xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
		return ctx, nil, errorx.New(errorx.BadRequest, "Invalid request format")
	}

	resp, err := handler(ctx, &req)
	return ctx, resp, err
}
