package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/sms"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type fakeStore struct {
	appointments map[uuid.UUID]model.AppointmentView
	patients     map[uuid.UUID]model.Patient
	employees    map[uuid.UUID]model.Employee
	periods      map[uuid.UUID]model.PayrollPeriod
	records      map[uuid.UUID][]model.PayrollRecordView
}

func (f *fakeStore) GetAppointmentView(_ context.Context, id uuid.UUID) (model.AppointmentView, error) {
	a, ok := f.appointments[id]
	if !ok {
		return a, database.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) GetPatient(_ context.Context, id uuid.UUID) (model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return p, database.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id uuid.UUID) (model.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return e, database.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) GetPeriod(_ context.Context, id uuid.UUID) (model.PayrollPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return p, database.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListPeriodRecords(_ context.Context, id uuid.UUID) ([]model.PayrollRecordView, error) {
	return f.records[id], nil
}

type mailbox struct {
	sent []email.Message
	err  error
}

func (m *mailbox) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type textMsg struct {
	phone, tpl string
	params     map[string]string
}

type outbox struct {
	sent []textMsg
	err  error
}

func (o *outbox) Send(_ context.Context, phone, tpl string, params ...sms.Param) error {
	if o.err != nil {
		return o.err
	}
	m := textMsg{phone: phone, tpl: tpl, params: map[string]string{}}
	for _, p := range params {
		m.params[p.Key] = p.Value
	}
	o.sent = append(o.sent, m)
	return nil
}

type fixture struct {
	store   *fakeStore
	mail    *mailbox
	text    *outbox
	svc     Service
	apptID  uuid.UUID
	patient uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/Guatemala")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	f := &fixture{
		store: &fakeStore{
			appointments: map[uuid.UUID]model.AppointmentView{},
			patients:     map[uuid.UUID]model.Patient{},
			employees:    map[uuid.UUID]model.Employee{},
			periods:      map[uuid.UUID]model.PayrollPeriod{},
			records:      map[uuid.UUID][]model.PayrollRecordView{},
		},
		mail:    &mailbox{},
		text:    &outbox{},
		apptID:  uuid.New(),
		patient: uuid.New(),
	}
	f.store.patients[f.patient] = model.Patient{
		ID: f.patient, FirstName: "Ana", LastName: "Lopez",
		Email: "ana@example.com", Phone: "+50255123456",
	}
	prof := "Dr. Ruiz"
	f.store.appointments[f.apptID] = model.AppointmentView{
		Appointment: model.Appointment{
			ID:        f.apptID,
			PatientID: f.patient,
			// 15:00 UTC is 09:00 in Guatemala.
			Start: time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC),
		},
		PatientName:      "Ana Lopez",
		ProfessionalName: &prof,
	}
	f.svc = New(f.store, f.mail, f.text, Templates{Appointment: "100", Cancellation: "200"}, "Centro Mente", loc)
	return f
}

func TestAppointmentChanged(t *testing.T) {
	tests := []struct {
		notice     email.AppointmentNotice
		wantTpl    string
		wantTime   bool
		subjectHas string
	}{
		{email.NoticeCreated, "100", true, "confirmed"},
		{email.NoticeRescheduled, "100", true, "rescheduled"},
		{email.NoticeCancelled, "200", false, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.notice), func(t *testing.T) {
			f := newFixture(t)
			if err := f.svc.AppointmentChanged(context.Background(), tt.notice, f.apptID); err != nil {
				t.Fatal(err)
			}

			if len(f.mail.sent) != 1 {
				t.Fatalf("emails = %d, want 1", len(f.mail.sent))
			}
			m := f.mail.sent[0]
			if !strings.Contains(m.Subject, tt.subjectHas) {
				t.Errorf("Subject = %q", m.Subject)
			}
			if !strings.Contains(m.TextBody, "Date: 2024-01-15") || !strings.Contains(m.TextBody, "Time: 09:00") {
				t.Errorf("body not in clinic time:\n%s", m.TextBody)
			}

			if len(f.text.sent) != 1 {
				t.Fatalf("sms = %d, want 1", len(f.text.sent))
			}
			sm := f.text.sent[0]
			if sm.tpl != tt.wantTpl || sm.phone != "+50255123456" {
				t.Errorf("sms = %+v", sm)
			}
			if sm.params["PATIENT"] != "Ana" || sm.params["DATE"] != "2024-01-15" {
				t.Errorf("params = %v", sm.params)
			}
			if _, ok := sm.params["TIME"]; ok != tt.wantTime {
				t.Errorf("TIME present = %v, want %v", ok, tt.wantTime)
			}
		})
	}
}

func TestAppointmentChangedWithoutContact(t *testing.T) {
	f := newFixture(t)
	p := f.store.patients[f.patient]
	p.Email, p.Phone = "", ""
	f.store.patients[f.patient] = p

	if err := f.svc.AppointmentChanged(context.Background(), email.NoticeCreated, f.apptID); err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent)+len(f.text.sent) != 0 {
		t.Error("nothing should be sent without contact data")
	}
}

func TestAppointmentChangedDeliveryFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")
	f.text.err = errors.New("gateway down")

	if err := f.svc.AppointmentChanged(context.Background(), email.NoticeCreated, f.apptID); err != nil {
		t.Errorf("delivery failure leaked: %v", err)
	}
}

func TestAppointmentChangedErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AppointmentChanged(ctx, "moved", f.apptID); !errors.Is(err, ErrUnknownNotice) {
		t.Errorf("unknown notice: err = %v", err)
	}
	if err := f.svc.AppointmentChanged(ctx, email.NoticeCreated, uuid.New()); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("unknown appointment: err = %v", err)
	}
}

func TestEmployeeCreated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withEmail, without := uuid.New(), uuid.New()
	f.store.employees[withEmail] = model.Employee{ID: withEmail, FirstName: "Luis", Email: "luis@example.com"}
	f.store.employees[without] = model.Employee{ID: without, FirstName: "Eva"}

	if err := f.svc.EmployeeCreated(ctx, withEmail); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.EmployeeCreated(ctx, without); err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].To[0] != "luis@example.com" {
		t.Fatalf("sent = %+v", f.mail.sent)
	}
	if f.mail.sent[0].Subject != "Welcome to Centro Mente" {
		t.Errorf("Subject = %q", f.mail.sent[0].Subject)
	}
}

func TestPayrollPaid(t *testing.T) {
	f := newFixture(t)
	periodID, ana, eva := uuid.New(), uuid.New(), uuid.New()
	start, _ := timerange.ParseDate("2024-01-01")
	end, _ := timerange.ParseDate("2024-01-31")
	f.store.periods[periodID] = model.PayrollPeriod{ID: periodID, PeriodStart: start, PeriodEnd: end, Status: model.PayrollPaid}
	f.store.employees[ana] = model.Employee{ID: ana, FirstName: "Ana", Email: "ana@clinic.example"}
	f.store.employees[eva] = model.Employee{ID: eva, FirstName: "Eva"}
	f.store.records[periodID] = []model.PayrollRecordView{
		{
			PayrollRecord: model.PayrollRecord{ID: uuid.New(), EmployeeID: ana, PeriodID: periodID, Amounts: model.Amounts{
				BaseSalary:     decimal.NewFromInt(4000),
				SessionsCount:  3,
				SessionsAmount: decimal.NewFromInt(600),
				IGSSDeduction:  decimal.NewFromInt(230),
				TotalPay:       decimal.NewFromInt(4370),
			}},
			EmployeeName: "Ana Lopez",
		},
		{PayrollRecord: model.PayrollRecord{ID: uuid.New(), EmployeeID: eva, PeriodID: periodID}, EmployeeName: "Eva Ruiz"},
	}

	if err := f.svc.PayrollPaid(context.Background(), periodID); err != nil {
		t.Fatal(err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("payslips = %d, want 1", len(f.mail.sent))
	}
	m := f.mail.sent[0]
	for _, want := range []string{"Sessions (3)", "600.00", "-230.00", "4370.00"} {
		if !strings.Contains(m.TextBody, want) {
			t.Errorf("payslip missing %q:\n%s", want, m.TextBody)
		}
	}
	if m.Subject != "Payslip 2024-01-01 to 2024-01-31" {
		t.Errorf("Subject = %q", m.Subject)
	}
}
