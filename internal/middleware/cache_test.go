package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starshade/online-store/internal/config"
)

func TestEncodeDecodePayload_RoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"products":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_Truncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
}

func TestCacheKeyFrom_VariesWithQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	e := echo.New()

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/products/")
		return cacheKeyFrom(cfg, c)
	}

	k1 := key("/api/products/?page=1&limit=10")
	k2 := key("/api/products/?page=2&limit=10")
	k3 := key("/api/products/?page=1&limit=10")

	assert.NotEqual(t, k1, k2, "different queries must produce different keys")
	assert.Equal(t, k1, k3, "identical requests must produce identical keys")
}

func cacheTestClient(t *testing.T) *redis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: s.Addr()})
}

func runCached(t *testing.T, mw echo.MiddlewareFunc, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/search?q=", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/products/search")
	require.NoError(t, mw(handler)(c))
	return rec
}

func TestNewRedisCache_ServesHitWithFullBody(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	mw := NewRedisCache(cfg, cacheTestClient(t))

	body := `{"products":[{"id":1,"name":"Mug"}]}`
	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, body)
	}

	first := runCached(t, mw, handler)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, body, first.Body.String())

	second := runCached(t, mw, handler)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, body, second.Body.String())
	assert.Equal(t, 1, calls, "hit must not reach the handler")
}

func TestNewRedisCache_NeverCachesOversizedBody(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 10,
	}
	mw := NewRedisCache(cfg, cacheTestClient(t))

	// Longer than MaxBodyBytes: the capture buffer is capped, so storing
	// it would replay a truncated 200.
	body := `{"products":[{"id":1,"name":"Mug","category":"kitchen"}]}`
	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, body)
	}

	first := runCached(t, mw, handler)
	assert.Equal(t, body, first.Body.String())

	second := runCached(t, mw, handler)
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, body, second.Body.String(), "client must never see a truncated body")
	assert.Equal(t, 2, calls, "oversized responses must not be served from cache")
}

func TestNewRedisCache_SkipsNonOKStatus(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	mw := NewRedisCache(cfg, cacheTestClient(t))

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error searching products"})
	}

	runCached(t, mw, handler)
	second := runCached(t, mw, handler)
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls, "error responses must not be cached")
}

func TestNewRedisCache_DisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
