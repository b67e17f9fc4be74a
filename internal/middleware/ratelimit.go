package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/httputil"
)

// RateLimiter applies a token-bucket limit per client IP. Buckets live for
// the lifetime of the process; a production deployment behind many replicas
// would move this into Redis instead.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			httputil.RespondWithError(c, apperrors.TooManyRequests())
			c.Abort()
			return
		}
		c.Next()
	}
}
