package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

const redacted = "[redacted]"

// sensitiveKeys never reach a log sink with their value.
var sensitiveKeys = map[string]struct{}{
	"national_id": {},
	"password":    {},
	"token":       {},
	"secret":      {},
	"phone":       {},
}

// New builds the process logger. Records carry the request, trace and user
// ids found on the context, sensitive attributes are masked, and the result is
// fanned out to every enabled output. The returned func flushes buffered
// outputs and must be called on shutdown.
func New(cfg *config.Config) (*slog.Logger, func()) {
	level := parseLevel(cfg.Logging.Level)
	dev := strings.EqualFold(cfg.Server.Environment, "development")
	out := cfg.Logging.Output

	var (
		sinks   []io.Writer
		outputs []slog.Handler
		closers []func()
	)

	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		sinks = append(sinks, os.Stdout)
	}
	if out.File.Enabled {
		rot := &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		}
		sinks = append(sinks, rot)
		closers = append(closers, func() { _ = rot.Close() })
	}
	if len(sinks) > 0 {
		json := strings.EqualFold(cfg.Logging.Format, "json") || !dev
		outputs = append(outputs, streamHandler(io.MultiWriter(sinks...), level, json, dev))
	}

	if out.Loki.Enabled {
		h, stop, err := newLokiHandler(cfg, level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loki logging disabled: %v\n", err)
		} else {
			outputs = append(outputs, h)
			closers = append(closers, stop)
		}
	}

	var h slog.Handler = slogmulti.Fanout(outputs...)
	if len(outputs) == 1 {
		h = outputs[0]
	}

	logger := slog.New(wrap(h)).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
	return logger, func() {
		for _, c := range closers {
			c()
		}
	}
}

// Default is the logger used before the config is read.
func Default() *slog.Logger {
	return slog.New(wrap(streamHandler(os.Stdout, slog.LevelInfo, true, false))).
		With(slog.String("service", "clinica"))
}

func streamHandler(w io.Writer, level slog.Level, json, source bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, AddSource: source}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// wrap adds request correlation and masking in front of h.
func wrap(h slog.Handler) slog.Handler {
	return slogmulti.Pipe(slogmulti.NewHandleInlineMiddleware(enrich)).Handler(h)
}

func enrich(ctx context.Context, r slog.Record, next func(context.Context, slog.Record) error) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		out.AddAttrs(slog.String("request_id", rid))
	}
	if tid := reqctx.TraceIDFromContext(ctx); tid != "" {
		out.AddAttrs(slog.String("trace_id", tid))
	}
	if uid, ok := reqctx.UserIDFromContext(ctx); ok {
		out.AddAttrs(slog.String("user_id", uid.String()))
	}
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(mask(a))
		return true
	})
	return next(ctx, out)
}

func mask(a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, 0, len(group))
		for _, g := range group {
			masked = append(masked, mask(g))
		}
		return slog.Group(a.Key, masked...)
	}
	return a
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
