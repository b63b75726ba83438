package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitTest(t *testing.T, config RateLimiterConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/ping", NewRateLimiter(config).RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func hitFrom(engine *gin.Engine, addr string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	engine := setupRateLimitTest(t, RateLimiterConfig{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hitFrom(engine, "10.0.0.1:5000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hitFrom(engine, "10.0.0.1:5000"))
}

func TestRateLimitBucketsPerClient(t *testing.T) {
	engine := setupRateLimitTest(t, RateLimiterConfig{Rate: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, hitFrom(engine, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, hitFrom(engine, "10.0.0.1:5000"))
	// a different client still has its full burst
	assert.Equal(t, http.StatusOK, hitFrom(engine, "10.0.0.2:5000"))
}
