package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/constants"
	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/sms"
)

// ErrUnknownNotice is returned for an appointment notice other than
// created, rescheduled or cancelled.
var ErrUnknownNotice = errors.New("unknown appointment notice")

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type Store interface {
	GetAppointmentView(ctx context.Context, id uuid.UUID) (model.AppointmentView, error)
	GetPatient(ctx context.Context, id uuid.UUID) (model.Patient, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	GetPeriod(ctx context.Context, id uuid.UUID) (model.PayrollPeriod, error)
	ListPeriodRecords(ctx context.Context, periodID uuid.UUID) ([]model.PayrollRecordView, error)
}

// Mailer is satisfied by *email.Client.
type Mailer interface {
	Send(ctx context.Context, m email.Message) error
}

// Texter is satisfied by *sms.Client.
type Texter interface {
	Send(ctx context.Context, phone, templateID string, params ...sms.Param) error
}

// Templates holds the sms.ir template ids. An empty id disables that SMS.
type Templates struct {
	Appointment  string
	Cancellation string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Service turns domain events into outbound messages. Lookup failures are
// returned; delivery failures are logged and swallowed.
type Service interface {
	AppointmentChanged(ctx context.Context, notice email.AppointmentNotice, appointmentID uuid.UUID) error
	EmployeeCreated(ctx context.Context, employeeID uuid.UUID) error
	PayrollPaid(ctx context.Context, periodID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	store   Store
	mail    Mailer
	text    Texter
	tpl     Templates
	appName string
	loc     *time.Location
}

func New(store Store, mail Mailer, text Texter, tpl Templates, appName string, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &notificationService{store: store, mail: mail, text: text, tpl: tpl, appName: appName, loc: loc}
}

func (s *notificationService) AppointmentChanged(ctx context.Context, notice email.AppointmentNotice, appointmentID uuid.UUID) error {
	switch notice {
	case email.NoticeCreated, email.NoticeRescheduled, email.NoticeCancelled:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNotice, notice)
	}

	a, err := s.store.GetAppointmentView(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	p, err := s.store.GetPatient(ctx, a.PatientID)
	if err != nil {
		return fmt.Errorf("get patient: %w", err)
	}

	start := a.Start.In(s.loc)
	date, clock := start.Format(constants.DateLayout), start.Format(constants.ClockLayout)

	if p.Email != "" {
		s.sendMail(ctx, "appointment "+string(notice), email.BuildAppointmentEmail(email.AppointmentEmailData{
			Email:        p.Email,
			PatientName:  p.FirstName,
			Professional: deref(a.ProfessionalName),
			Specialty:    deref(a.SpecialtyName),
			Date:         date,
			Time:         clock,
			Notice:       notice,
			AppName:      s.appName,
		}))
	}

	if p.Phone != "" {
		params := []sms.Param{{Key: "PATIENT", Value: p.FirstName}, {Key: "DATE", Value: date}}
		tpl := s.tpl.Cancellation
		if notice != email.NoticeCancelled {
			tpl = s.tpl.Appointment
			params = append(params, sms.Param{Key: "TIME", Value: clock})
		}
		if tpl != "" {
			if err := s.text.Send(ctx, p.Phone, tpl, params...); err != nil {
				slog.WarnContext(ctx, "appointment sms failed", "appointment_id", appointmentID, "notice", notice, "err", err)
			}
		}
	}
	return nil
}

func (s *notificationService) EmployeeCreated(ctx context.Context, employeeID uuid.UUID) error {
	e, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("get employee: %w", err)
	}
	if e.Email == "" {
		return nil
	}
	s.sendMail(ctx, "welcome", email.BuildWelcomeEmail(email.WelcomeEmailData{
		Email:     e.Email,
		FirstName: e.FirstName,
		AppName:   s.appName,
	}))
	return nil
}

func (s *notificationService) PayrollPaid(ctx context.Context, periodID uuid.UUID) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return fmt.Errorf("get period: %w", err)
	}
	records, err := s.store.ListPeriodRecords(ctx, periodID)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	for _, r := range records {
		e, err := s.store.GetEmployee(ctx, r.EmployeeID)
		if err != nil {
			slog.WarnContext(ctx, "payslip skipped", "record_id", r.ID, "err", err)
			continue
		}
		if e.Email == "" {
			continue
		}
		s.sendMail(ctx, "payslip", email.BuildPayslipEmail(payslip(e.Email, period, r, s.appName)))
	}
	return nil
}

func (s *notificationService) sendMail(ctx context.Context, kind string, m email.Message) {
	err := s.mail.Send(ctx, m)
	switch {
	case err == nil:
	case errors.Is(err, email.ErrDisabled):
		slog.DebugContext(ctx, "email disabled, message dropped", "kind", kind)
	default:
		slog.WarnContext(ctx, "email delivery failed", "kind", kind, "err", err)
	}
}

func payslip(to string, period model.PayrollPeriod, r model.PayrollRecordView, appName string) email.PayslipEmailData {
	money := func(d decimal.Decimal) string { return d.StringFixed(2) }
	neg := func(d decimal.Decimal) string { return d.Neg().StringFixed(2) }

	return email.PayslipEmailData{
		Email:        to,
		EmployeeName: r.EmployeeName,
		PeriodStart:  period.PeriodStart.String(),
		PeriodEnd:    period.PeriodEnd.String(),
		Lines: []email.Line{
			{Label: "Base salary", Value: money(r.BaseSalary)},
			{Label: fmt.Sprintf("Sessions (%d)", r.SessionsCount), Value: money(r.SessionsAmount)},
			{Label: "Bonuses", Value: money(r.Bonuses)},
			{Label: "IGSS", Value: neg(r.IGSSDeduction)},
			{Label: "Other deductions", Value: neg(r.OtherDeductions)},
		},
		Total:   money(r.TotalPay),
		AppName: appName,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
