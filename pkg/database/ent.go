package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/Alijeyrad/clinica_backend/config"
)

// NewDriver opens the application database and returns an ent SQL driver.
// With logging enabled every statement is traced at debug and statements
// slower than the configured threshold are logged at warn.
func NewDriver(cfg config.DatabaseConfig) (dialect.Driver, error) {
	return Open(OptionsFrom(cfg))
}

func Open(o Options) (dialect.Driver, error) {
	db, err := openSQLDB(o)
	if err != nil {
		return nil, err
	}

	var drv dialect.Driver = entsql.OpenDB(dialect.Postgres, db)
	if o.LogQueries {
		drv = &slowLogDriver{
			Driver:    dialect.DebugWithContext(drv, logQuery),
			threshold: o.SlowQuery,
		}
	}
	return drv, nil
}

// Migrate creates or alters the given tables. In safe mode columns and
// indexes are never dropped.
func Migrate(ctx context.Context, drv dialect.Driver, safe bool, tables ...*schema.Table) error {
	m, err := schema.NewMigrate(drv,
		schema.WithForeignKeys(true),
		schema.WithDropColumn(!safe),
		schema.WithDropIndex(!safe),
	)
	if err != nil {
		return fmt.Errorf("prepare migration: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}

func logQuery(ctx context.Context, args ...any) {
	slog.DebugContext(ctx, "sql", "stmt", fmt.Sprint(args...))
}

type slowLogDriver struct {
	dialect.Driver
	threshold time.Duration
}

func (d *slowLogDriver) Exec(ctx context.Context, query string, args, v any) error {
	defer d.observe(ctx, query, time.Now())
	return d.Driver.Exec(ctx, query, args, v)
}

func (d *slowLogDriver) Query(ctx context.Context, query string, args, v any) error {
	defer d.observe(ctx, query, time.Now())
	return d.Driver.Query(ctx, query, args, v)
}

func (d *slowLogDriver) observe(ctx context.Context, query string, start time.Time) {
	if took := time.Since(start); took >= d.threshold {
		slog.WarnContext(ctx, "slow query", "stmt", query, "took_ms", took.Milliseconds())
	}
}
