package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	every time.Duration
	burst int
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
}

func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		every: every,
		burst: burst,
		ips:   make(map[string]*rate.Limiter),
	}
}

// NewStrictRateLimiter is meant for the login endpoint: 5 attempts, then one
// more per minute.
func NewStrictRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(time.Minute, 5).RateLimit()
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, exists := rl.ips[ip]
	if !exists {
		l = rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.ips[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			utils.AbortWithError(c, http.StatusTooManyRequests, errors.New("Muitas tentativas, aguarde alguns instantes"))
			return
		}
		c.Next()
	}
}
