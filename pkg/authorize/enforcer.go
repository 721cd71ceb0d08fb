package authorize

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	entadapter "github.com/casbin/ent-adapter"
)

//go:embed model.conf
var builtinModel string

// PolicyChannel is the NOTIFY channel instances use to announce policy edits.
const PolicyChannel = "clinica_policy_update"

// reloadFailed is set when a watcher-triggered reload fails and cleared by
// the next successful one.
var reloadFailed atomic.Bool

// PolicyHealthy reports whether the in-memory policy matches the last
// notification received. Readiness probes use it.
func PolicyHealthy() bool {
	return !reloadFailed.Load()
}

// CleanupFunc releases enforcer resources on shutdown.
type CleanupFunc func(ctx context.Context)

// EnforcerOptions configures NewEnforcer. An empty ModelPath selects the
// built-in model.
type EnforcerOptions struct {
	ModelPath string
	DSN       string
	// Watch subscribes to PolicyChannel so edits made by other instances
	// are reloaded. CLI commands leave it off.
	Watch bool
}

// LoadModel reads the Casbin model at path, or the built-in one when path
// is empty.
func LoadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(builtinModel)
	}
	return model.NewModelFromFile(path)
}

// NewEnforcer creates a DistributedEnforcer whose rules live in PostgreSQL
// through the ent adapter. Writes are saved immediately.
func NewEnforcer(o EnforcerOptions) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	m, err := LoadModel(o.ModelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("casbin model: %w", err)
	}
	adapter, err := entadapter.NewAdapter("postgres", o.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("casbin adapter: %w", err)
	}
	e, err := casbin.NewDistributedEnforcer(m, adapter)
	if err != nil {
		return nil, nil, err
	}
	e.EnableAutoSave(true)

	if !o.Watch {
		return e, func(context.Context) {}, nil
	}
	w, err := watch(e, o.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("casbin watcher: %w", err)
	}
	return e, func(context.Context) {
		slog.Info("closing casbin policy watcher")
		w.Close()
	}, nil
}

func watch(e *casbin.DistributedEnforcer, dsn string) (interface{ Close() }, error) {
	w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
		Channel: PolicyChannel,
	})
	if err != nil {
		return nil, err
	}
	reload := func(msg string) {
		slog.Debug("casbin policy update received", "message", msg)
		if err := e.LoadPolicy(); err != nil {
			slog.Error("policy reload failed", "err", err)
			reloadFailed.Store(true)
			return
		}
		reloadFailed.Store(false)
	}
	if err := w.SetUpdateCallback(reload); err != nil {
		w.Close()
		return nil, err
	}
	if err := e.SetWatcher(w); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
