package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/clinica_backend/internal/repo"
	"github.com/Alijeyrad/clinica_backend/internal/service/appointment"
	"github.com/Alijeyrad/clinica_backend/internal/service/catalog"
	"github.com/Alijeyrad/clinica_backend/internal/service/clinicalrecord"
	"github.com/Alijeyrad/clinica_backend/internal/service/employee"
	"github.com/Alijeyrad/clinica_backend/internal/service/patient"
	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
	"github.com/Alijeyrad/clinica_backend/internal/service/scheduling"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
	"github.com/Alijeyrad/clinica_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/clinica_backend/pkg/paseto"
	"github.com/Alijeyrad/clinica_backend/pkg/redis"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Auth           authorize.Authorizer
	PasetoMgr      *pasetotoken.Manager
	Sessions       *redis.Sessions         `optional:"true"`
	Redis          *goredis.Client         `optional:"true"`
	Store          *repo.Store             `optional:"true"`
	OTel           *observability.Provider `optional:"true"`
	AppointmentSvc appointment.Service
	SchedulingSvc  scheduling.Service
	EmployeeSvc    employee.Service
	PatientSvc     patient.Service
	CatalogSvc     catalog.Service
	PayrollSvc     payroll.Service

	ClinicalRecordSvc clinicalrecord.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	var sessions middleware.SessionChecker
	if r.p.Sessions != nil {
		sessions = r.p.Sessions
	}
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, sessions)

	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.SchedulingSvc)
	employeeH := handler.NewEmployeeHandler(r.p.EmployeeSvc, r.p.SchedulingSvc, r.p.PayrollSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	catalogH := handler.NewCatalogHandler(r.p.CatalogSvc)
	payrollH := handler.NewPayrollHandler(r.p.PayrollSvc)
	clinicalH := handler.NewClinicalRecordHandler(r.p.ClinicalRecordSvc)

	api := app.Group("/api/v1", authRequired)

	registerAppointmentRoutes(api, appointmentH, requirePerm)
	registerEmployeeRoutes(api, employeeH, requirePerm)
	registerClinicalRoutes(api, clinicalH, requirePerm)
	registerPatientRoutes(api, patientH, requirePerm)
	registerCatalogRoutes(api, catalogH, requirePerm)
	registerPayrollRoutes(api, payrollH, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.ready(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	obs := r.p.Cfg.Observability
	if obs.Enabled && obs.Metrics.Enabled {
		path := obs.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.metricsHandler()))
	}
}

// ready holds while the policy cache is in sync and both PostgreSQL and
// Redis answer.
func (r *Router) ready(ctx context.Context) bool {
	if !authorize.PolicyHealthy() {
		slog.WarnContext(ctx, "readiness: casbin policy out of sync")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if r.p.Store != nil {
		if err := r.p.Store.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "readiness: database ping failed", "err", err)
			return false
		}
	}
	if r.p.Redis != nil {
		if err := r.p.Redis.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "readiness: redis ping failed", "err", err)
			return false
		}
	}
	return true
}

func (r *Router) metricsHandler() http.Handler {
	if r.p.OTel != nil {
		return r.p.OTel.MetricsHandler()
	}
	return promhttp.Handler()
}
