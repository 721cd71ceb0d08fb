package repo

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
)

var windowColumns = []string{"id", "employee_id", "day_of_week", "start_time", "end_time", "specialty_id", "is_active"}

func scanWindow(rows *entsql.Rows, extra ...any) (model.AvailabilityWindow, error) {
	var (
		w    model.AvailabilityWindow
		spec uuid.NullUUID
	)
	dest := append([]any{&w.ID, &w.EmployeeID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &spec, &w.IsActive}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return model.AvailabilityWindow{}, err
	}
	w.SpecialtyID = uuidPtr(spec)
	return w, nil
}

// ListActiveWindows returns the active windows of ACTIVE employees on one
// weekday, with employee and specialty names.
func (s *Store) ListActiveWindows(ctx context.Context, f model.WindowFilter) ([]model.WindowView, error) {
	w := s.b.Table("availability_windows").As("w")
	e := s.b.Table("employees").As("e")
	sp := s.b.Table("specialties").As("s")

	cols := make([]string, 0, len(windowColumns)+3)
	for _, c := range windowColumns {
		cols = append(cols, w.C(c))
	}
	cols = append(cols, e.C("first_name"), e.C("last_name"), sp.C("name"))

	sel := s.b.Select(cols...).
		From(w).
		Join(e).On(w.C("employee_id"), e.C("id")).
		LeftJoin(sp).On(w.C("specialty_id"), sp.C("id")).
		Where(entsql.And(
			entsql.EQ(w.C("day_of_week"), f.DayOfWeek),
			entsql.EQ(w.C("is_active"), true),
			entsql.EQ(e.C("status"), string(model.EmployeeActive)),
		))
	if f.EmployeeID != nil {
		sel.Where(entsql.EQ(w.C("employee_id"), *f.EmployeeID))
	}
	if f.SpecialtyID != nil {
		sel.Where(entsql.EQ(w.C("specialty_id"), *f.SpecialtyID))
	}
	sel.OrderBy(e.C("last_name"), e.C("first_name"), w.C("start_time"))

	q, args := sel.Query()
	var out []model.WindowView
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var (
			first, last string
			specName    stdsql.NullString
		)
		win, err := scanWindow(rows, &first, &last, &specName)
		if err != nil {
			return err
		}
		v := model.WindowView{AvailabilityWindow: win, EmployeeName: model.FullName(first, last)}
		if specName.Valid {
			name := specName.String
			v.SpecialtyName = &name
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func (s *Store) ListWindows(ctx context.Context, employeeID uuid.UUID) ([]model.AvailabilityWindow, error) {
	q, args := s.b.Select(windowColumns...).
		From(s.b.Table("availability_windows")).
		Where(entsql.EQ("employee_id", employeeID)).
		OrderBy("day_of_week", "start_time").
		Query()
	out := []model.AvailabilityWindow{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		w, err := scanWindow(rows)
		if err != nil {
			return err
		}
		out = append(out, w)
		return nil
	})
	return out, err
}

// ReplaceWindows swaps the employee's full window set.
func (s *Store) ReplaceWindows(ctx context.Context, employeeID uuid.UUID, windows []model.AvailabilityWindow) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		q, args := s.b.Delete("availability_windows").Where(entsql.EQ("employee_id", employeeID)).Query()
		if _, err := s.exec(ctx, q, args); err != nil {
			return err
		}
		if len(windows) == 0 {
			return nil
		}
		ins := s.b.Insert("availability_windows").Columns(windowColumns...)
		for _, w := range windows {
			ins.Values(w.ID, employeeID, w.DayOfWeek, w.StartTime, w.EndTime, nullUUID(w.SpecialtyID), w.IsActive)
		}
		q, args = ins.Query()
		_, err := s.exec(ctx, q, args)
		return err
	})
}
