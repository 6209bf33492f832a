package middleware

import (
	"sync"
	"time"

	"property-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles authentication attempts per client IP.
type LoginRateLimiter struct {
	visitors map[string]*visitorLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewLoginRateLimiter(perMinute int, burst int) *LoginRateLimiter {
	l := &LoginRateLimiter{
		visitors: make(map[string]*visitorLimiter),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
	go l.cleanup()
	return l
}

func (l *LoginRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !l.allow(ip) {
			config.Logger.Warn("Login rate limit exceeded", zap.String("ip", ip))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many attempts",
				"error":   "Please wait before trying again.",
			})
		}
		return c.Next()
	}
}

func (l *LoginRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitorLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *LoginRateLimiter) cleanup() {
	for range time.Tick(10 * time.Minute) {
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > 30*time.Minute {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}
