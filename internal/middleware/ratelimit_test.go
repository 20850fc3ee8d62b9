package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/starshade/online-store/internal/config"
)

func newTestContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(target)
	return c
}

func TestBuildRateKey_Strategies(t *testing.T) {
	cases := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:192.0.2.1"},
		{"route", "rl:route:GET /api/products/"},
		{"ip_route", "rl:ip:192.0.2.1:route:GET /api/products/"},
		{"unknown", "rl:ip:192.0.2.1"},
	}
	for _, tc := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
		c := newTestContext(http.MethodGet, "/api/products/")
		if got := buildRateKey(cfg, c); got != tc.want {
			t.Fatalf("strategy %q: got %q want %q", tc.strategy, got, tc.want)
		}
	}
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
	}{
		{int64(5), 5},
		{int32(4), 4},
		{3, 3},
		{float64(2), 2},
		{"7", 7},
		{"junk", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := asInt64(tc.in); got != tc.want {
			t.Fatalf("asInt64(%v): got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewTokenBucket_DisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	c := newTestContext(http.MethodGet, "/api/products/")

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("disabled limiter must invoke the next handler")
	}
}

func TestNewTokenBucket_BlocksWhenBucketEmpty(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour, // no refill during the test
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, rdb)
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/products/")
		if err := mw(handler)(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		codes = append(codes, rec.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: got status %d want %d (all: %v)", i+1, codes[i], want[i], codes)
		}
	}
}

func TestNewTokenBucket_NilClientPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
	c := newTestContext(http.MethodGet, "/api/products/")

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("limiter without redis must invoke the next handler")
	}
}
