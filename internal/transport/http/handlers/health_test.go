package http_handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(PingCheck("postgres", fakePinger{err: errors.New("down")}))
	rr := serve(h.Healthz, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestReadyz(t *testing.T) {
	refused := errors.New("dial tcp: refused")
	cases := []struct {
		name   string
		checks []Check
		code   int
		body   string
	}{
		{"memory store", nil, http.StatusOK, `{"status":"ready"}`},
		{"db up", []Check{PingCheck("postgres", fakePinger{})}, http.StatusOK,
			`{"status":"ready","checks":{"postgres":"ok"}}`},
		{"db down", []Check{PingCheck("postgres", fakePinger{err: refused})}, http.StatusServiceUnavailable,
			`{"status":"unavailable","checks":{"postgres":"down"}}`},
		{"optional down", []Check{
			PingCheck("postgres", fakePinger{}),
			{Name: "redis", Ping: fakePinger{err: refused}.PingContext, Optional: true},
		}, http.StatusOK, `{"status":"ready","checks":{"postgres":"ok","redis":"down"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.checks...)
			rr := serve(h.Readyz, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tc.code, rr.Code)
			assert.JSONEq(t, tc.body, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "refused")
		})
	}
}
