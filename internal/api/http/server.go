package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinica_backend/internal/api/http/router"
	"github.com/Alijeyrad/clinica_backend/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

const accessLogFormat = "${ip} [${time}] req_id=${locals:request_id} ${method} ${url} ${status} ${latency}\n"

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

// NewServer builds the fiber app and binds it to the fx lifecycle: it
// listens on server.port once the graph has started and drains in-flight
// requests on stop.
func NewServer(p Params) *fiber.App {
	app := fiber.New(appConfig(p.Cfg))

	probes := []string{
		healthcheck.LivenessEndpoint,
		healthcheck.ReadinessEndpoint,
		healthcheck.StartupEndpoint,
		p.Cfg.Observability.Metrics.Path,
	}
	for _, h := range globalMiddleware(p.Cfg, p.Redis, probes) {
		app.Use(h)
	}
	if p.OTel != nil {
		app.Use(p.OTel.FiberMiddleware(probes...))
	}
	p.Router.Register(app)

	addr := net.JoinHostPort("", strconv.Itoa(p.Cfg.Server.Port))
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				slog.Info("http server listening", "addr", addr)
				err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
				if err != nil && !errors.Is(err, net.ErrClosed) {
					slog.Error("http server stopped", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("http server draining")
			return app.ShutdownWithContext(ctx)
		},
	})
	return app
}

func appConfig(cfg *config.Config) fiber.Config {
	fc := fiber.Config{
		AppName:      cfg.Clinic.Name,
		ErrorHandler: handler.ErrorHandler,
	}
	if t := time.Duration(cfg.Server.TimeoutSeconds) * time.Second; t > 0 {
		fc.ReadTimeout, fc.WriteTimeout = t, t
	}
	return fc
}

// globalMiddleware returns the handlers every route runs, in order. The
// hardening set (helmet, CORS, rate limit) is production only.
func globalMiddleware(cfg *config.Config, rdb *redis.Client, probes []string) []fiber.Handler {
	hs := []fiber.Handler{middleware.RequestID(), recoverer.New()}

	if cfg.Server.IsProduction() {
		hs = append(hs, helmet.New())
		if c := cfg.Server.CORS; c.Enabled {
			hs = append(hs, cors.New(cors.Config{
				AllowOrigins:     c.AllowOrigins,
				AllowMethods:     c.AllowMethods,
				AllowHeaders:     c.AllowHeaders,
				ExposeHeaders:    c.ExposeHeaders,
				AllowCredentials: c.AllowCredentials,
				MaxAge:           c.MaxAgeSeconds,
			}))
		}
		hs = append(hs, middleware.RateLimit(rdb, cfg.Server.RateLimit.RequestsPerMinute, probes...))
	}

	return append(hs, logger.New(logger.Config{Format: accessLogFormat}))
}
