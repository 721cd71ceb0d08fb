// Package repo is the PostgreSQL adapter behind the service Store
// interfaces. Queries are built with ent's SQL builder and run on the
// transaction carried by the context, if any.
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// errMissingReference surfaces foreign key violations, e.g. an area deleted
// between validation and insert.
var errMissingReference = apperr.Validation("referenced record does not exist")

// Store implements the Store interface of every service package.
type Store struct {
	drv dialect.Driver
	loc *time.Location
	b   *entsql.DialectBuilder
}

// New returns a Store over drv. loc is the clinic timezone used to turn date
// filters into instants.
func New(drv dialect.Driver, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{drv: drv, loc: loc, b: entsql.Dialect(dialect.Postgres)}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTx(ctx, s.drv, fn)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, "SELECT 1", []any{}, &rows); err != nil {
		return err
	}
	return rows.Close()
}

func (s *Store) conn(ctx context.Context) dialect.ExecQuerier {
	return database.Conn(ctx, s.drv)
}

func (s *Store) exec(ctx context.Context, query string, args []any) (int64, error) {
	if args == nil {
		args = []any{}
	}
	var res stdsql.Result
	if err := s.conn(ctx).Exec(ctx, query, args, &res); err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

// execOne is exec that reports database.ErrNotFound when no row matched.
func (s *Store) execOne(ctx context.Context, query string, args []any) error {
	n, err := s.exec(ctx, query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args []any, scan func(*entsql.Rows) error) error {
	if args == nil {
		args = []any{}
	}
	var rows entsql.Rows
	if err := s.conn(ctx).Query(ctx, query, args, &rows); err != nil {
		return mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// queryOne scans the first row and reports database.ErrNotFound when there
// is none.
func (s *Store) queryOne(ctx context.Context, query string, args []any, scan func(*entsql.Rows) error) error {
	found := false
	err := s.query(ctx, query, args, func(rows *entsql.Rows) error {
		if found {
			return nil
		}
		found = true
		return scan(rows)
	})
	if err != nil {
		return err
	}
	if !found {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, sel *entsql.Selector) (int, error) {
	q, args := sel.Query()
	var n int
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

func (s *Store) exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	n, err := s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(table)).Where(entsql.EQ("id", id)))
	return n > 0, err
}

// lockKey takes a transaction-scoped advisory lock on key.
func (s *Store) lockKey(ctx context.Context, key string) error {
	if !database.InTx(ctx) {
		return errors.New("advisory lock requires a transaction")
	}
	_, err := s.exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", []any{key})
	return err
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stdsql.ErrNoRows):
		return database.ErrNotFound
	case database.IsUniqueViolation(err, ""):
		// Keep the driver error so callers can tell constraints apart.
		return fmt.Errorf("%w: %w", database.ErrDuplicate, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", errMissingReference, err)
	}
	return err
}

func whereAll(sel *entsql.Selector, preds []*entsql.Predicate) *entsql.Selector {
	for _, p := range preds {
		sel.Where(p)
	}
	return sel
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func nullString(s string) stdsql.NullString {
	return stdsql.NullString{String: s, Valid: s != ""}
}

func nullDate(d *timerange.Date) any {
	if d == nil {
		return nil
	}
	return *d
}

func nullTime(t *time.Time) stdsql.NullTime {
	if t == nil {
		return stdsql.NullTime{}
	}
	return stdsql.NullTime{Time: *t, Valid: true}
}

func timePtr(n stdsql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}
