package app

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/Alijeyrad/clinica_backend/internal/repo"
	"github.com/Alijeyrad/clinica_backend/internal/repo/migrate"
	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/clinica_backend/pkg/paseto"
	redispkg "github.com/Alijeyrad/clinica_backend/pkg/redis"
	s3pkg "github.com/Alijeyrad/clinica_backend/pkg/s3"
	"github.com/Alijeyrad/clinica_backend/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDriver),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideSessions),
	fx.Provide(ProvidePasetoManager),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideEventMetrics),
	fx.Provide(ProvideUploader),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
)

// ProvideDriver opens the clinic database. With database.migrations.auto_migrate
// the schema is brought up to date before the server starts listening.
func ProvideDriver(lc fx.Lifecycle, cfg *config.Config) (dialect.Driver, error) {
	drv, err := database.NewDriver(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Database.Migrations.AutoMigrate {
				return nil
			}
			slog.Info("applying schema migrations", "safe_mode", cfg.Database.Migrations.SafeMode)
			return database.Migrate(ctx, drv, cfg.Database.Migrations.SafeMode, migrate.Tables...)
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return drv.Close()
		},
	})
	return drv, nil
}

func ProvideStore(drv dialect.Driver, cfg *config.Config) *repo.Store {
	return repo.New(drv, cfg.Clinic.Location())
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.Connect(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideSessions(rdb *redis.Client) *redispkg.Sessions {
	return redispkg.NewSessions(rdb)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideAuthorization(lc fx.Lifecycle, cfg *config.Config) (authorize.Authorizer, error) {
	enforcer, cleanup, err := authorize.NewEnforcer(authorize.EnforcerOptions{
		ModelPath: cfg.Authorization.CasbinModelPath,
		DSN:       database.DSN(cfg.CasbinDatabase),
		Watch:     cfg.Authorization.PolicySyncEnabled,
	})
	if err != nil {
		return nil, err
	}
	auth, err := authorize.NewAuthorizer(enforcer, cfg.Authorization.SuperadminBypass)
	if err != nil {
		cleanup(context.Background())
		return nil, err
	}
	if cfg.Authorization.EnableAudit {
		auth = authorize.WithAudit(auth, slog.Default())
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("cleaning up Casbin enforcer")
			cleanup(ctx)
			return nil
		},
	})
	return auth, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email, cfg.Clinic.Name)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

// ProvideUploader returns nil when no bucket is configured; payroll exports
// are then streamed.
func ProvideUploader(cfg *config.Config) (payroll.Uploader, error) {
	if !cfg.S3.Enabled() {
		return nil, nil
	}
	c, err := s3pkg.New(context.Background(), cfg.S3)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ProvideNatsClient returns nil when nats.url is empty.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		slog.Info("nats.url not set, events disabled")
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn) events.Publisher {
	if nc == nil {
		return events.NopPublisher{}
	}
	return nc
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.SettingsFrom(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideEventMetrics needs the meter provider installed by ProvideOTel.
func ProvideEventMetrics(p *observability.Provider) (*observability.EventMetrics, error) {
	if p == nil {
		return nil, nil
	}
	return observability.NewEventMetrics(p.Meter)
}
