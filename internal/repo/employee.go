package repo

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var employeeColumns = []string{
	"id", "user_id", "first_name", "last_name", "email", "phone", "employee_type",
	"license_number", "area_id", "base_salary", "session_rate", "igss_percentage",
	"hired_date", "status", "created_at", "updated_at",
}

func scanEmployee(rows *entsql.Rows) (model.Employee, error) {
	var (
		e      model.Employee
		userID uuid.NullUUID
		areaID uuid.NullUUID
		email  stdsql.NullString
		hired  *timerange.Date
	)
	err := rows.Scan(
		&e.ID, &userID, &e.FirstName, &e.LastName, &email, &e.Phone, &e.EmployeeType,
		&e.LicenseNumber, &areaID, &e.BaseSalary, &e.SessionRate, &e.IGSSPct,
		&hired, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return model.Employee{}, err
	}
	e.UserID = uuidPtr(userID)
	e.AreaID = uuidPtr(areaID)
	e.Email = email.String
	e.HiredDate = hired
	e.SpecialtyIDs = []uuid.UUID{}
	return e, nil
}

func employeeValues(e model.Employee) []any {
	return []any{
		e.ID, nullUUID(e.UserID), e.FirstName, e.LastName, nullString(e.Email), e.Phone, e.EmployeeType,
		e.LicenseNumber, nullUUID(e.AreaID), e.BaseSalary, e.SessionRate, e.IGSSPct,
		nullDate(e.HiredDate), string(e.Status), e.CreatedAt, e.UpdatedAt,
	}
}

func (s *Store) CreateEmployee(ctx context.Context, e model.Employee) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		q, args := s.b.Insert("employees").Columns(employeeColumns...).Values(employeeValues(e)...).Query()
		if _, err := s.exec(ctx, q, args); err != nil {
			return err
		}
		return s.setSpecialties(ctx, e.ID, e.SpecialtyIDs)
	})
}

func (s *Store) UpdateEmployee(ctx context.Context, e model.Employee) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		u := s.b.Update("employees")
		vals := employeeValues(e)
		// id and created_at are immutable.
		for i, col := range employeeColumns {
			if col == "id" || col == "created_at" {
				continue
			}
			u.Set(col, vals[i])
		}
		q, args := u.Where(entsql.EQ("id", e.ID)).Query()
		if err := s.execOne(ctx, q, args); err != nil {
			return err
		}
		return s.setSpecialties(ctx, e.ID, e.SpecialtyIDs)
	})
}

func (s *Store) setSpecialties(ctx context.Context, employeeID uuid.UUID, ids []uuid.UUID) error {
	q, args := s.b.Delete("employee_specialties").Where(entsql.EQ("employee_id", employeeID)).Query()
	if _, err := s.exec(ctx, q, args); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	ins := s.b.Insert("employee_specialties").Columns("employee_id", "specialty_id")
	for _, id := range lo.Uniq(ids) {
		ins.Values(employeeID, id)
	}
	q, args = ins.Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	return s.getEmployeeWhere(ctx, entsql.EQ("id", id))
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (model.Employee, error) {
	return s.getEmployeeWhere(ctx, entsql.EQ("user_id", userID))
}

func (s *Store) EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "employees", id)
}

func (s *Store) getEmployeeWhere(ctx context.Context, p *entsql.Predicate) (model.Employee, error) {
	q, args := s.b.Select(employeeColumns...).From(s.b.Table("employees")).Where(p).Query()
	var e model.Employee
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		e, err = scanEmployee(rows)
		return err
	})
	if err != nil {
		return model.Employee{}, err
	}
	list := []model.Employee{e}
	if err := s.loadSpecialties(ctx, list); err != nil {
		return model.Employee{}, err
	}
	return list[0], nil
}

func (s *Store) ListEmployees(ctx context.Context, f model.EmployeeFilter, p model.Page) ([]model.Employee, int, error) {
	var preds []*entsql.Predicate
	if f.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*f.Status)))
	}
	if f.AreaID != nil {
		preds = append(preds, entsql.EQ("area_id", *f.AreaID))
	}
	if f.EmployeeType != "" {
		preds = append(preds, entsql.EQ("employee_type", f.EmployeeType))
	}
	if f.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("first_name", f.Search),
			entsql.ContainsFold("last_name", f.Search),
			entsql.ContainsFold("email", f.Search),
		))
	}

	total, err := s.count(ctx, whereAll(s.b.Select(entsql.Count("*")).From(s.b.Table("employees")), preds))
	if err != nil {
		return nil, 0, err
	}

	sel := whereAll(s.b.Select(employeeColumns...).From(s.b.Table("employees")), preds).
		OrderBy("last_name", "first_name", "id").
		Limit(p.Limit).
		Offset(p.Offset())
	out, err := s.listEmployees(ctx, sel)
	return out, total, err
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]model.Employee, error) {
	sel := s.b.Select(employeeColumns...).
		From(s.b.Table("employees")).
		Where(entsql.EQ("status", string(model.EmployeeActive))).
		OrderBy("last_name", "first_name")
	return s.listEmployees(ctx, sel)
}

func (s *Store) listEmployees(ctx context.Context, sel *entsql.Selector) ([]model.Employee, error) {
	q, args := sel.Query()
	out := []model.Employee{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		e, err := scanEmployee(rows)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, s.loadSpecialties(ctx, out)
}

func (s *Store) loadSpecialties(ctx context.Context, emps []model.Employee) error {
	if len(emps) == 0 {
		return nil
	}
	ids := lo.Map(emps, func(e model.Employee, _ int) uuid.UUID { return e.ID })
	q, args := s.b.Select("employee_id", "specialty_id").
		From(s.b.Table("employee_specialties")).
		Where(entsql.In("employee_id", lo.ToAnySlice(ids)...)).
		OrderBy("specialty_id").
		Query()

	byEmployee := map[uuid.UUID][]uuid.UUID{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var emp, spec uuid.UUID
		if err := rows.Scan(&emp, &spec); err != nil {
			return err
		}
		byEmployee[emp] = append(byEmployee[emp], spec)
		return nil
	})
	if err != nil {
		return err
	}
	for i := range emps {
		if specs, ok := byEmployee[emps[i].ID]; ok {
			emps[i].SpecialtyIDs = specs
		}
	}
	return nil
}
