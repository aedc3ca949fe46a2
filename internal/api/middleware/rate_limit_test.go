package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}
	return client
}

func rateLimitedRouter(client *redis.Client, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(client, limit, time.Minute))
	router.GET("/limited", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitEnforced(t *testing.T) {
	client := testRedisClient(t)
	defer client.Close()

	ip := "10.9.9.1"
	client.Del(context.Background(), "ratelimit:"+ip+":/limited")
	router := rateLimitedRouter(client, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, ip))
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, ip))

	// A different client IP has its own counter.
	assert.Equal(t, http.StatusOK, doRequest(router, "10.9.9.2"))
}

func TestRateLimitReArmsLostExpiry(t *testing.T) {
	client := testRedisClient(t)
	defer client.Close()

	ip := "10.9.9.3"
	key := "ratelimit:" + ip + ":/limited"
	ctx := context.Background()

	// Simulate a counter whose expiry write was lost: the key exists with a
	// count but no TTL.
	require.NoError(t, client.Set(ctx, key, 2, 0).Err())
	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	require.Less(t, ttl, time.Duration(0), "precondition: no expiry on the key")

	router := rateLimitedRouter(client, 100)
	assert.Equal(t, http.StatusOK, doRequest(router, ip))

	// The middleware must have re-armed the window so the counter expires.
	ttl, err = client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	client.Del(ctx, key)
}
