package repo

import (
	"context"
	stdsql "database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
)

var periodColumns = []string{"id", "period_start", "period_end", "status", "created_at", "updated_at"}

var recordColumns = []string{
	"id", "employee_id", "period_id", "base_salary_amount", "sessions_count", "sessions_amount",
	"bonuses_amount", "igss_deduction", "other_deductions", "total_pay", "paid_at",
	"created_at", "updated_at",
}

// recomputedColumns are overwritten on recalculation. paid_at, id and
// created_at are never touched.
var recomputedColumns = []string{
	"base_salary_amount", "sessions_count", "sessions_amount", "bonuses_amount",
	"igss_deduction", "other_deductions", "total_pay", "updated_at",
}

// ---------------------------------------------------------------------------
// Periods
// ---------------------------------------------------------------------------

func scanPeriod(rows *entsql.Rows) (model.PayrollPeriod, error) {
	var p model.PayrollPeriod
	err := rows.Scan(&p.ID, &p.PeriodStart, &p.PeriodEnd, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreatePeriod(ctx context.Context, p model.PayrollPeriod) error {
	q, args := s.b.Insert("payroll_periods").
		Columns(periodColumns...).
		Values(p.ID, p.PeriodStart, p.PeriodEnd, string(p.Status), p.CreatedAt, p.UpdatedAt).
		Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) GetPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error) {
	return s.getPeriod(ctx, id, false)
}

// LockPeriod reads the period and holds a row lock until the surrounding
// transaction ends.
func (s *Store) LockPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error) {
	return s.getPeriod(ctx, id, true)
}

func (s *Store) getPeriod(ctx context.Context, id uuid.UUID, lock bool) (model.PayrollPeriod, error) {
	sel := s.b.Select(periodColumns...).From(s.b.Table("payroll_periods")).Where(entsql.EQ("id", id))
	if lock {
		sel.ForUpdate()
	}
	q, args := sel.Query()
	var p model.PayrollPeriod
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		p, err = scanPeriod(rows)
		return err
	})
	return p, err
}

func (s *Store) ListPeriods(ctx context.Context, p model.Page) ([]model.PayrollPeriod, int, error) {
	total, err := s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table("payroll_periods")))
	if err != nil {
		return nil, 0, err
	}
	q, args := s.b.Select(periodColumns...).
		From(s.b.Table("payroll_periods")).
		OrderBy(entsql.Desc("period_start"), entsql.Desc("id")).
		Limit(p.Limit).
		Offset(p.Offset()).
		Query()
	out := []model.PayrollPeriod{}
	err = s.query(ctx, q, args, func(rows *entsql.Rows) error {
		pp, err := scanPeriod(rows)
		if err != nil {
			return err
		}
		out = append(out, pp)
		return nil
	})
	return out, total, err
}

func (s *Store) UpdatePeriodStatus(ctx context.Context, id uuid.UUID, status model.PayrollStatus, at time.Time) error {
	q, args := s.b.Update("payroll_periods").
		Set("status", string(status)).
		Set("updated_at", at).
		Where(entsql.EQ("id", id)).
		Query()
	return s.execOne(ctx, q, args)
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func recordValues(r model.PayrollRecord) []any {
	return []any{
		r.ID, r.EmployeeID, r.PeriodID, r.BaseSalary, r.SessionsCount, r.SessionsAmount,
		r.Bonuses, r.IGSSDeduction, r.OtherDeductions, r.TotalPay, nullTime(r.PaidAt),
		r.CreatedAt, r.UpdatedAt,
	}
}

// UpsertRecord inserts the record or, when one exists for the same employee
// and period, overwrites its computed amounts.
func (s *Store) UpsertRecord(ctx context.Context, rec model.PayrollRecord) error {
	q, args := s.b.Insert("payroll_records").
		Columns(recordColumns...).
		Values(recordValues(rec)...).
		OnConflict(
			entsql.ConflictColumns("employee_id", "period_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range recomputedColumns {
					u.SetExcluded(c)
				}
			}),
		).
		Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) UpdateRecordAmounts(ctx context.Context, rec model.PayrollRecord) error {
	q, args := s.b.Update("payroll_records").
		Set("bonuses_amount", rec.Bonuses).
		Set("other_deductions", rec.OtherDeductions).
		Set("igss_deduction", rec.IGSSDeduction).
		Set("total_pay", rec.TotalPay).
		Set("updated_at", rec.UpdatedAt).
		Where(entsql.EQ("id", rec.ID)).
		Query()
	return s.execOne(ctx, q, args)
}

// MarkRecordsPaid stamps paid_at on the period's records that have none.
func (s *Store) MarkRecordsPaid(ctx context.Context, periodID uuid.UUID, at time.Time) (int, error) {
	q, args := s.b.Update("payroll_records").
		Set("paid_at", at).
		Set("updated_at", at).
		Where(entsql.And(entsql.EQ("period_id", periodID), entsql.IsNull("paid_at"))).
		Query()
	n, err := s.exec(ctx, q, args)
	return int(n), err
}

type recordTables struct {
	r, e, p *entsql.SelectTable
}

func (s *Store) recordViewSelect() (*entsql.Selector, recordTables) {
	r := s.b.Table("payroll_records").As("r")
	e := s.b.Table("employees").As("e")
	p := s.b.Table("payroll_periods").As("p")
	cols := make([]string, 0, len(recordColumns)+5)
	for _, c := range recordColumns {
		cols = append(cols, r.C(c))
	}
	cols = append(cols, e.C("first_name"), e.C("last_name"), e.C("employee_type"), p.C("period_start"), p.C("period_end"))
	sel := s.b.Select(cols...).
		From(r).
		Join(e).On(r.C("employee_id"), e.C("id")).
		Join(p).On(r.C("period_id"), p.C("id"))
	return sel, recordTables{r: r, e: e, p: p}
}

func scanRecordView(rows *entsql.Rows) (model.PayrollRecordView, error) {
	var (
		v           model.PayrollRecordView
		paid        stdsql.NullTime
		first, last string
	)
	err := rows.Scan(
		&v.ID, &v.EmployeeID, &v.PeriodID, &v.BaseSalary, &v.SessionsCount, &v.SessionsAmount,
		&v.Bonuses, &v.IGSSDeduction, &v.OtherDeductions, &v.TotalPay, &paid,
		&v.CreatedAt, &v.UpdatedAt,
		&first, &last, &v.EmployeeType, &v.PeriodStart, &v.PeriodEnd,
	)
	if err != nil {
		return model.PayrollRecordView{}, err
	}
	v.PaidAt = timePtr(paid)
	v.EmployeeName = model.FullName(first, last)
	return v, nil
}

func (s *Store) listRecordViews(ctx context.Context, sel *entsql.Selector) ([]model.PayrollRecordView, error) {
	q, args := sel.Query()
	out := []model.PayrollRecordView{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		v, err := scanRecordView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// ListPeriodRecords returns the period's records ordered by employee last
// and first name.
func (s *Store) ListPeriodRecords(ctx context.Context, periodID uuid.UUID) ([]model.PayrollRecordView, error) {
	sel, t := s.recordViewSelect()
	sel.Where(entsql.EQ(t.r.C("period_id"), periodID)).OrderBy(t.e.C("last_name"), t.e.C("first_name"))
	return s.listRecordViews(ctx, sel)
}

// ListEmployeeRecords returns an employee's history, newest period first.
func (s *Store) ListEmployeeRecords(ctx context.Context, employeeID uuid.UUID) ([]model.PayrollRecordView, error) {
	sel, t := s.recordViewSelect()
	sel.Where(entsql.EQ(t.r.C("employee_id"), employeeID)).OrderBy(entsql.Desc(t.p.C("period_start")))
	return s.listRecordViews(ctx, sel)
}

func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (model.PayrollRecordView, error) {
	sel, t := s.recordViewSelect()
	q, args := sel.Where(entsql.EQ(t.r.C("id"), id)).Query()
	var v model.PayrollRecordView
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		v, err = scanRecordView(rows)
		return err
	})
	return v, err
}
