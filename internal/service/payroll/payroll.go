package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/s3"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var maxMoney = decimal.RequireFromString("999999999.99")

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreatePeriodRequest struct {
	PeriodStart timerange.Date `json:"period_start"`
	PeriodEnd   timerange.Date `json:"period_end"`
}

type UpdateRecordRequest struct {
	Bonuses         *decimal.Decimal `json:"bonuses_amount"`
	OtherDeductions *decimal.Decimal `json:"other_deductions"`
}

type CalculateResult struct {
	Message            string `json:"message"`
	EmployeesProcessed int    `json:"employees_processed"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreatePeriod(ctx context.Context, p model.PayrollPeriod) error
	GetPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error)
	// LockPeriod reads the period and holds a row lock until the surrounding
	// transaction ends.
	LockPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error)
	ListPeriods(ctx context.Context, p model.Page) ([]model.PayrollPeriod, int, error)
	UpdatePeriodStatus(ctx context.Context, id uuid.UUID, status model.PayrollStatus, at time.Time) error
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListActiveEmployees(ctx context.Context) ([]model.Employee, error)
	CountCompletedSessions(ctx context.Context, r timerange.Range) (map[uuid.UUID]int, error)
	ListPeriodRecords(ctx context.Context, periodID uuid.UUID) ([]model.PayrollRecordView, error)
	ListEmployeeRecords(ctx context.Context, employeeID uuid.UUID) ([]model.PayrollRecordView, error)
	GetRecord(ctx context.Context, id uuid.UUID) (model.PayrollRecordView, error)
	UpsertRecord(ctx context.Context, rec model.PayrollRecord) error
	UpdateRecordAmounts(ctx context.Context, rec model.PayrollRecord) error
	MarkRecordsPaid(ctx context.Context, periodID uuid.UUID, at time.Time) (int, error)
}

// Uploader stores exports; satisfied by *s3.Client.
type Uploader interface {
	Put(ctx context.Context, obj s3.Object) error
	URL(ctx context.Context, key string) (string, error)
}

type Service interface {
	CreatePeriod(ctx context.Context, req CreatePeriodRequest) (model.PayrollPeriod, error)
	ListPeriods(ctx context.Context, p model.Page) ([]model.PayrollPeriod, model.PageMeta, error)
	GetPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error)
	Calculate(ctx context.Context, periodID uuid.UUID) (CalculateResult, error)
	PeriodRecords(ctx context.Context, periodID uuid.UUID) ([]model.PayrollRecordView, error)
	GetRecord(ctx context.Context, id uuid.UUID) (model.PayrollRecordView, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (model.PayrollRecordView, error)
	EmployeeHistory(ctx context.Context, employeeID uuid.UUID) ([]model.PayrollRecordView, error)
	Close(ctx context.Context, periodID uuid.UUID) (model.PayrollPeriod, error)
	Pay(ctx context.Context, periodID uuid.UUID) (model.PayrollPeriod, error)
	Export(ctx context.Context, periodID uuid.UUID) (Export, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type payrollService struct {
	store    Store
	events   events.Publisher
	uploader Uploader
	loc      *time.Location
	now      func() time.Time
}

// New returns the payroll service. uploader may be nil, in which case exports
// are returned inline.
func New(store Store, pub events.Publisher, uploader Uploader, loc *time.Location) Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &payrollService{store: store, events: pub, uploader: uploader, loc: loc, now: time.Now}
}

func (s *payrollService) CreatePeriod(ctx context.Context, req CreatePeriodRequest) (model.PayrollPeriod, error) {
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PeriodEnd.Before(req.PeriodStart) {
		return model.PayrollPeriod{}, ErrInvalidPeriodRange
	}
	now := s.now()
	p := model.PayrollPeriod{
		ID:          uuid.Must(uuid.NewV7()),
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Status:      model.PayrollOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreatePeriod(ctx, p); err != nil {
		return model.PayrollPeriod{}, fmt.Errorf("create period: %w", err)
	}
	return p, nil
}

func (s *payrollService) ListPeriods(ctx context.Context, p model.Page) ([]model.PayrollPeriod, model.PageMeta, error) {
	p = p.Normalize()
	items, total, err := s.store.ListPeriods(ctx, p)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list periods: %w", err)
	}
	return items, model.NewPageMeta(p, total), nil
}

func (s *payrollService) GetPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error) {
	p, err := s.store.GetPeriod(ctx, id)
	return p, periodErr(err)
}

// Calculate recomputes every active employee's record for an OPEN period in
// one transaction. Manual bonuses and deductions already on a record survive;
// paid_at is never touched.
func (s *payrollService) Calculate(ctx context.Context, periodID uuid.UUID) (CalculateResult, error) {
	var processed int
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		period, err := s.store.LockPeriod(ctx, periodID)
		if err != nil {
			return periodErr(err)
		}
		if period.Status != model.PayrollOpen {
			return ErrCalculateNotOpen
		}

		emps, err := s.store.ListActiveEmployees(ctx)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		sessions, err := s.store.CountCompletedSessions(ctx, period.PeriodStart.Through(period.PeriodEnd, s.loc))
		if err != nil {
			return fmt.Errorf("count sessions: %w", err)
		}
		existing, err := s.store.ListPeriodRecords(ctx, periodID)
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}
		byEmployee := lo.KeyBy(existing, func(r model.PayrollRecordView) uuid.UUID { return r.EmployeeID })

		now := s.now()
		for _, emp := range emps {
			rec := model.PayrollRecord{
				ID:         uuid.Must(uuid.NewV7()),
				EmployeeID: emp.ID,
				PeriodID:   periodID,
				CreatedAt:  now,
			}
			bonuses, deductions := decimal.Zero, decimal.Zero
			if prev, ok := byEmployee[emp.ID]; ok {
				rec.ID = prev.ID
				rec.CreatedAt = prev.CreatedAt
				rec.PaidAt = prev.PaidAt
				bonuses, deductions = prev.Bonuses, prev.OtherDeductions
			}
			rec.Amounts = Compute(emp, sessions[emp.ID], bonuses, deductions)
			rec.UpdatedAt = now

			if err := s.store.UpsertRecord(ctx, rec); err != nil {
				return fmt.Errorf("upsert record for %s: %w", emp.ID, err)
			}
		}
		processed = len(emps)
		return nil
	})
	if err != nil {
		return CalculateResult{}, err
	}

	slog.InfoContext(ctx, "payroll calculated", "period_id", periodID, "employees", processed)
	return CalculateResult{Message: "Payroll calculated successfully", EmployeesProcessed: processed}, nil
}

func (s *payrollService) PeriodRecords(ctx context.Context, periodID uuid.UUID) ([]model.PayrollRecordView, error) {
	if _, err := s.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	recs, err := s.store.ListPeriodRecords(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

func (s *payrollService) GetRecord(ctx context.Context, id uuid.UUID) (model.PayrollRecordView, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.PayrollRecordView{}, ErrRecordNotFound
		}
		return model.PayrollRecordView{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// UpdateRecord applies manual bonuses/deductions to a record of an OPEN period
// and recomputes igss and total with the employee's current percentage. The
// record is re-read under the period lock so a concurrent Calculate cannot
// leave the total computed from stale amounts.
func (s *payrollService) UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (model.PayrollRecordView, error) {
	if err := checkAdjustments(req); err != nil {
		return model.PayrollRecordView{}, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		head, err := s.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		period, err := s.store.LockPeriod(ctx, head.PeriodID)
		if err != nil {
			return periodErr(err)
		}
		if period.Status != model.PayrollOpen {
			return ErrAdjustNotOpen
		}
		rec, err := s.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		emp, err := s.store.GetEmployee(ctx, rec.EmployeeID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("get employee: %w", err)
		}

		if req.Bonuses != nil {
			rec.Bonuses = *req.Bonuses
		}
		if req.OtherDeductions != nil {
			rec.OtherDeductions = *req.OtherDeductions
		}
		rec.Amounts = Recompute(rec.Amounts, emp.IGSSPct)
		rec.UpdatedAt = s.now()

		if err := s.store.UpdateRecordAmounts(ctx, rec.PayrollRecord); err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.PayrollRecordView{}, err
	}
	return s.GetRecord(ctx, id)
}

// checkAdjustments keeps manual amounts within numeric(12,2).
func checkAdjustments(req UpdateRecordRequest) error {
	if (req.Bonuses != nil && req.Bonuses.IsNegative()) ||
		(req.OtherDeductions != nil && req.OtherDeductions.IsNegative()) {
		return ErrNegativeAmount
	}
	fields := map[string]string{}
	money := func(name string, d *decimal.Decimal) {
		switch {
		case d == nil:
		case d.Exponent() < -2 && !d.Equal(d.Round(2)):
			fields[name] = "must have at most 2 decimal places"
		case d.GreaterThan(maxMoney):
			fields[name] = "must be at most " + maxMoney.String()
		}
	}
	money("bonuses_amount", req.Bonuses)
	money("other_deductions", req.OtherDeductions)
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}

func (s *payrollService) EmployeeHistory(ctx context.Context, employeeID uuid.UUID) ([]model.PayrollRecordView, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	recs, err := s.store.ListEmployeeRecords(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

func (s *payrollService) Close(ctx context.Context, periodID uuid.UUID) (model.PayrollPeriod, error) {
	return s.advance(ctx, periodID, model.PayrollOpen, model.PayrollClosed, ErrCloseNotOpen, nil)
}

// Pay marks a CLOSED period PAID and stamps paid_at on every record that has
// none yet.
func (s *payrollService) Pay(ctx context.Context, periodID uuid.UUID) (model.PayrollPeriod, error) {
	p, err := s.advance(ctx, periodID, model.PayrollClosed, model.PayrollPaid, ErrPayNotClosed,
		func(ctx context.Context, at time.Time) error {
			n, err := s.store.MarkRecordsPaid(ctx, periodID, at)
			if err != nil {
				return fmt.Errorf("mark records paid: %w", err)
			}
			slog.InfoContext(ctx, "payroll paid", "period_id", periodID, "records", n)
			return nil
		})
	if err != nil {
		return model.PayrollPeriod{}, err
	}
	events.Emit(ctx, s.events, events.PayrollPaid, periodID)
	return p, nil
}

func (s *payrollService) advance(ctx context.Context, periodID uuid.UUID, from, to model.PayrollStatus, errState error, also func(context.Context, time.Time) error) (model.PayrollPeriod, error) {
	var out model.PayrollPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.store.LockPeriod(ctx, periodID)
		if err != nil {
			return periodErr(err)
		}
		if p.Status != from {
			return errState
		}
		now := s.now()
		if err := s.store.UpdatePeriodStatus(ctx, periodID, to, now); err != nil {
			return fmt.Errorf("update period: %w", err)
		}
		if also != nil {
			if err := also(ctx, now); err != nil {
				return err
			}
		}
		p.Status, p.UpdatedAt = to, now
		out = p
		return nil
	})
	return out, err
}

func periodErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return ErrPeriodNotFound
	}
	return fmt.Errorf("get period: %w", err)
}
