package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/mediavault/pkg/configs"
)

// limiterStore 按key维护限流器，闲置条目定期清理.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	s := &limiterStore{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go s.cleanup()
	return s
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (s *limiterStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		for key, entry := range s.limiters {
			if time.Since(entry.lastSeen) > 3*time.Minute {
				delete(s.limiters, key)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimitMiddleware 创建限流中间件，支持 global/ip/header:X 三种维度.
func RateLimitMiddleware(cfg *configs.RateLimitConfig) gin.HandlerFunc {
	if cfg == nil || !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	store := newLimiterStore(cfg.RPS, cfg.Burst)
	keyFunc := resolveKeyFunc(cfg.Key)

	return func(c *gin.Context) {
		if !store.get(keyFunc(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func resolveKeyFunc(key string) func(*gin.Context) string {
	switch {
	case key == "global":
		return func(*gin.Context) string { return "global" }
	case strings.HasPrefix(key, "header:"):
		header := strings.TrimPrefix(key, "header:")
		return func(c *gin.Context) string {
			if v := c.GetHeader(header); v != "" {
				return v
			}
			return c.ClientIP()
		}
	default: // ip
		return func(c *gin.Context) string { return c.ClientIP() }
	}
}
