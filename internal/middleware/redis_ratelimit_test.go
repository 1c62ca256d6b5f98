package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeCounterCache struct {
	counts map[string]int64
	err    error
}

func newFakeCounterCache() *fakeCounterCache {
	return &fakeCounterCache{counts: make(map[string]int64)}
}

func (f *fakeCounterCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("key not found")
}

func (f *fakeCounterCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return nil
}

func (f *fakeCounterCache) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeCounterCache) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounterCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (f *fakeCounterCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	return errors.New("key not found")
}

func limitedRouter(rl *RedisRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/contacts", rl.LimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRedisRateLimiterBlocksAfterQuota(t *testing.T) {
	rl := NewRedisRateLimiter(newFakeCounterCache(), 3, 60)
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRedisRateLimiterSeparatesClients(t *testing.T) {
	rl := NewRedisRateLimiter(newFakeCounterCache(), 1, 60)
	router := limitedRouter(rl)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	router.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	blocked := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	router.ServeHTTP(blocked, req)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	other := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRedisRateLimiterDegradesWithoutCache(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 1, 60)
	router := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRedisRateLimiterDegradesOnCacheError(t *testing.T) {
	broken := newFakeCounterCache()
	broken.err = errors.New("connection refused")
	rl := NewRedisRateLimiter(broken, 1, 60)
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
