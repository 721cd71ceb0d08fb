package repo

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/clinica_backend/internal/model"
)

var catalogColumns = []string{"id", "name", "description", "created_at"}

type catalogRow struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

func scanCatalog(rows *entsql.Rows) (catalogRow, error) {
	var r catalogRow
	err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt)
	return r, err
}

func (s *Store) insertCatalog(ctx context.Context, table string, id uuid.UUID, name, desc string, at any) error {
	q, args := s.b.Insert(table).
		Columns(catalogColumns...).
		Values(id, name, desc, at).
		Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) updateCatalog(ctx context.Context, table string, id uuid.UUID, name, desc string) error {
	q, args := s.b.Update(table).
		Set("name", name).
		Set("description", desc).
		Where(entsql.EQ("id", id)).
		Query()
	return s.execOne(ctx, q, args)
}

func (s *Store) getCatalog(ctx context.Context, table string, id uuid.UUID) (catalogRow, error) {
	q, args := s.b.Select(catalogColumns...).From(s.b.Table(table)).Where(entsql.EQ("id", id)).Query()
	var out catalogRow
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		out, err = scanCatalog(rows)
		return err
	})
	return out, err
}

func (s *Store) listCatalog(ctx context.Context, table string) ([]catalogRow, error) {
	q, args := s.b.Select(catalogColumns...).From(s.b.Table(table)).OrderBy("name").Query()
	var out []catalogRow
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		r, err := scanCatalog(rows)
		if err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Areas
// ---------------------------------------------------------------------------

func (r catalogRow) area() model.Area {
	return model.Area{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}

func (s *Store) CreateArea(ctx context.Context, a model.Area) error {
	return s.insertCatalog(ctx, "areas", a.ID, a.Name, a.Description, a.CreatedAt)
}

func (s *Store) UpdateArea(ctx context.Context, a model.Area) error {
	return s.updateCatalog(ctx, "areas", a.ID, a.Name, a.Description)
}

func (s *Store) GetArea(ctx context.Context, id uuid.UUID) (model.Area, error) {
	r, err := s.getCatalog(ctx, "areas", id)
	return r.area(), err
}

func (s *Store) ListAreas(ctx context.Context) ([]model.Area, error) {
	rows, err := s.listCatalog(ctx, "areas")
	out := make([]model.Area, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.area())
	}
	return out, err
}

func (s *Store) AreaExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "areas", id)
}

// ---------------------------------------------------------------------------
// Specialties
// ---------------------------------------------------------------------------

func (r catalogRow) specialty() model.Specialty {
	return model.Specialty{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt}
}

func (s *Store) CreateSpecialty(ctx context.Context, sp model.Specialty) error {
	return s.insertCatalog(ctx, "specialties", sp.ID, sp.Name, sp.Description, sp.CreatedAt)
}

func (s *Store) UpdateSpecialty(ctx context.Context, sp model.Specialty) error {
	return s.updateCatalog(ctx, "specialties", sp.ID, sp.Name, sp.Description)
}

func (s *Store) GetSpecialty(ctx context.Context, id uuid.UUID) (model.Specialty, error) {
	r, err := s.getCatalog(ctx, "specialties", id)
	return r.specialty(), err
}

func (s *Store) ListSpecialties(ctx context.Context) ([]model.Specialty, error) {
	rows, err := s.listCatalog(ctx, "specialties")
	out := make([]model.Specialty, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.specialty())
	}
	return out, err
}

// CountSpecialties returns how many of ids exist.
func (s *Store) CountSpecialties(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.count(ctx, s.b.Select(entsql.Count("*")).
		From(s.b.Table("specialties")).
		Where(entsql.In("id", lo.ToAnySlice(ids)...)))
}
