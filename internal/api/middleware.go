package api

import (
	"net/http"
	"strings"
	"time"

	"weekly-menu/internal/auth"
	"weekly-menu/internal/metrics"
	"weekly-menu/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userKey = "user"

// Authenticate resolves the Bearer token to a stored profile and attaches
// it to the request.
func Authenticate(provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		u, err := provider.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *user.User {
	return c.MustGet(userKey).(*user.User)
}

// Instrument records request counts, latencies and in-flight requests.
func Instrument(m *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.ActiveRequests.Inc()
		defer m.ActiveRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// RequestLogger logs every request except health and metrics scrapes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if v, ok := c.Get(userKey); ok {
			fields = append(fields, zap.String("user_id", v.(*user.User).ID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request failed", append(fields, zap.String("error", c.Errors.String()))...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// RateLimit rejects requests with 429 once limiter runs dry. A nil limiter
// lets everything through.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}

// newLLMLimiter allows perMinute requests a minute with a small burst.
func newLLMLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), min(perMinute, 3))
}
