package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"indentflow/internal/handler"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Readiness(t *testing.T) {
	h := handler.NewHealthHandler(pingFunc(func(context.Context) error { return nil }), func() int { return 3 })
	c, w := newJSONContext(t, http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","realtime_clients":3}`, w.Body.String())

	down := handler.NewHealthHandler(pingFunc(func(context.Context) error { return errors.New("refused") }), nil)
	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	down.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)
	c, w := newJSONContext(t, http.MethodGet, "/healthz", nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
