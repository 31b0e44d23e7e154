package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-client token bucket settings.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTimeout is how long an unused client bucket is kept.
	IdleTimeout time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterData struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	config    RateLimiterConfig
}

func (d *rateLimiterData) allow(key string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastSweep) > d.config.IdleTimeout {
		for k, cl := range d.clients {
			if now.Sub(cl.lastSeen) > d.config.IdleTimeout {
				delete(d.clients, k)
			}
		}
		d.lastSweep = now
	}

	cl, ok := d.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(d.config.RequestsPerSecond), d.config.Burst)}
		d.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware limits each client IP to its own token bucket.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = 3 * time.Minute
	}
	data := &rateLimiterData{
		clients:   map[string]*clientLimiter{},
		lastSweep: time.Now(),
		config:    config,
	}

	return func(c *gin.Context) {
		if !data.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Code:    "RATE_LIMITED",
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
