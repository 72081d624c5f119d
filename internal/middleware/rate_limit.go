package middleware

import (
	"net/http"
	"sync"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const codeTooManyRequests = "TOO_MANY_REQUESTS"

// KeyedRateLimiter hands out one token bucket per key (client IP or user id).
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = limiter
	}

	return limiter
}

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, codeTooManyRequests, "Too many requests from this IP", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByUser must run after AuthMiddleware; anonymous requests pass through.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(userID).Allow() {
			response.Error(c, http.StatusTooManyRequests, codeTooManyRequests, "Too many requests from this user", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
