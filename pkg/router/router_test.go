package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vinopick/backend/pkg/errorx"
	"github.com/vinopick/backend/pkg/xcontext"
)

type echoRequest struct {
	Name  string `form:"name" json:"name"`
	Limit int    `form:"limit" json:"limit"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
}

type testKey struct{}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	switch req.Name {
	case "missing":
		return nil, errorx.New(errorx.NotFound, "Not found %s", req.Name)
	case "broken":
		return nil, errors.New("connection reset by peer")
	}

	prefix, _ := ctx.Value(testKey{}).(string)
	return &echoResponse{Greeting: prefix + "hello " + req.Name}, nil
}

func serveTest(t *testing.T, h http.Handler, method, target, body string) (int, response) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestRouter_Envelope(t *testing.T) {
	r := New(context.Background())
	GET(r, "/echo", echo)
	POST(r, "/echo", echo)

	status, resp := serveTest(t, r.Handler(), http.MethodGet, "/echo?name=wine", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, map[string]any{"greeting": "hello wine"}, resp.Data)

	status, resp = serveTest(t, r.Handler(), http.MethodPost, "/echo", `{"name":"shop"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]any{"greeting": "hello shop"}, resp.Data)

	status, resp = serveTest(t, r.Handler(), http.MethodGet, "/echo?name=missing", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, int64(errorx.NotFound), resp.Code)
	require.Equal(t, "Not found missing", resp.Error)
	require.Nil(t, resp.Data)

	status, resp = serveTest(t, r.Handler(), http.MethodGet, "/echo?name=broken", "")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)
	require.NotContains(t, resp.Error, "connection reset")

	status, resp = serveTest(t, r.Handler(), http.MethodPost, "/echo", `{"name":`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)

	status, resp = serveTest(t, r.Handler(), http.MethodGet, "/echo?limit=ten", "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

func TestRouter_Middlewares(t *testing.T) {
	r := New(context.Background())

	closed := []error{}
	r.After(func(ctx context.Context) {
		closed = append(closed, xcontext.Error(ctx))
	})
	GET(r, "/public", echo)

	private := r.Branch()
	private.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return context.WithValue(ctx, testKey{}, "dear "), nil
	})
	GET(private, "/private", echo)

	status, resp := serveTest(t, r.Handler(), http.MethodGet, "/public?name=a", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]any{"greeting": "hello a"}, resp.Data)

	status, resp = serveTest(t, r.Handler(), http.MethodGet, "/private?name=b", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	req := httptest.NewRequest(http.MethodGet, "/private?name=c", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dear hello c")

	// Closers run for every request, failed or not.
	require.Len(t, closed, 3)
	require.NoError(t, closed[0])
	require.True(t, errors.Is(closed[1], errorx.Error{Code: errorx.Unauthenticated}))
	require.NoError(t, closed[2])
}

func TestRouter_Handle(t *testing.T) {
	r := New(context.Background())
	r.Handle(http.MethodGet, "/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
