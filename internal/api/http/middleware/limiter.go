package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRequestsPerMinute = 120
	limiterKeyPrefix         = "clinica:rl:"
)

// RateLimit caps requests per client IP over a sliding minute. Counters live
// in Redis when rdb is set so every instance shares them, and in process
// memory otherwise. Paths under an exempt prefix are never counted.
func RateLimit(rdb *redis.Client, perMinute int, exempt ...string) fiber.Handler {
	if perMinute <= 0 {
		perMinute = defaultRequestsPerMinute
	}
	cfg := limiter.Config{
		Max:               perMinute,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c fiber.Ctx) string {
			return limiterKeyPrefix + c.IP()
		},
		Next: func(c fiber.Ctx) bool {
			for _, p := range exempt {
				if p != "" && strings.HasPrefix(c.Path(), p) {
					return true
				}
			}
			return false
		},
		LimitReached: func(c fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded, retry later")
		},
	}
	if rdb != nil {
		cfg.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(cfg)
}
