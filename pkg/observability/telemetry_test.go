package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Alijeyrad/clinica_backend/config"
)

func TestSettingsFrom(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "staging"},
		Observability: config.ObservabilityConfig{
			ServiceName: "clinica",
			Tracing: config.TracingConfig{
				OTLPEndpoint: "otel:4318",
				SamplingRate: 0.25,
			},
		},
	}

	got := SettingsFrom(cfg)
	if got.OTLPEndpoint != "" {
		t.Errorf("disabled tracing kept endpoint %q", got.OTLPEndpoint)
	}
	if got.Environment != "staging" || got.SampleRatio != 0.25 {
		t.Errorf("settings = %+v", got)
	}

	cfg.Observability.Tracing.Enabled = true
	if got := SettingsFrom(cfg); got.OTLPEndpoint != "otel:4318" {
		t.Errorf("OTLPEndpoint = %q", got.OTLPEndpoint)
	}

	cfg.Observability.ServiceName = ""
	cfg.Observability.Tracing.SamplingRate = 0
	if got := SettingsFrom(cfg); got.ServiceName != "clinica" || got.SampleRatio != 1 {
		t.Errorf("defaults = %+v", got)
	}
}

func TestEventMetricsObserve(t *testing.T) {
	m, err := NewEventMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.Observe(ctx, "appointment.created", time.Now(), nil)
	m.Observe(ctx, "appointment.created", time.Now(), errors.New("boom"))

	var nilMetrics *EventMetrics
	nilMetrics.Observe(ctx, "noop", time.Now(), nil)
}

func TestProviderMetricsAndMiddleware(t *testing.T) {
	p, err := InitTelemetry(context.Background(), Settings{ServiceName: "clinica-test", SampleRatio: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Shutdown(context.Background())

	app := fiber.New()
	app.Use(p.FiberMiddleware("/metrics"))
	app.Get("/api/v1/areas/:id", func(c fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/metrics", adaptor.HTTPHandler(p.MetricsHandler()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/areas/1", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Trace-Id") == "" {
		t.Error("missing X-Trace-Id header")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"clinica_http_requests", `route="/api/v1/areas/:id"`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
