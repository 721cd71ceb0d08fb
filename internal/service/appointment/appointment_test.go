package appointment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type fakeStore struct {
	patients  map[uuid.UUID]bool
	employees map[uuid.UUID]model.Employee
	appts     map[uuid.UUID]model.Appointment

	locked []uuid.UUID
	txs    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patients:  map[uuid.UUID]bool{},
		employees: map[uuid.UUID]model.Employee{},
		appts:     map[uuid.UUID]model.Appointment{},
	}
}

// WithTx snapshots appointments and restores them when fn fails.
func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txs++
	snapshot := make(map[uuid.UUID]model.Appointment, len(f.appts))
	for k, v := range f.appts {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		f.appts = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) LockProfessional(_ context.Context, id uuid.UUID) error {
	f.locked = append(f.locked, id)
	return nil
}

func (f *fakeStore) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.patients[id], nil
}

func (f *fakeStore) EmployeeExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.employees[id]
	return ok, nil
}

func (f *fakeStore) GetEmployeeByUserID(_ context.Context, userID uuid.UUID) (model.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return model.Employee{}, database.ErrNotFound
}

func (f *fakeStore) ListBlockingAppointments(_ context.Context, ids []uuid.UUID, r timerange.Range) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range f.appts {
		if a.ProfessionalID == nil || !a.Status.Blocking() || !r.Overlaps(a.Range()) {
			continue
		}
		for _, id := range ids {
			if *a.ProfessionalID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, a model.Appointment) error {
	f.appts[a.ID] = a
	return nil
}

func (f *fakeStore) UpdateAppointment(_ context.Context, a model.Appointment) error {
	if _, ok := f.appts[a.ID]; !ok {
		return database.ErrNotFound
	}
	f.appts[a.ID] = a
	return nil
}

func (f *fakeStore) LockAppointment(_ context.Context, id uuid.UUID) (model.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return model.Appointment{}, database.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) GetAppointmentView(_ context.Context, id uuid.UUID) (model.AppointmentView, error) {
	a, ok := f.appts[id]
	if !ok {
		return model.AppointmentView{}, database.ErrNotFound
	}
	return model.AppointmentView{Appointment: a, PatientName: "Maria Garcia"}, nil
}

func (f *fakeStore) ListAppointments(_ context.Context, flt model.AppointmentFilter, p model.Page) ([]model.AppointmentView, int, error) {
	var all []model.AppointmentView
	for _, a := range f.appts {
		if flt.ProfessionalID != nil && (a.ProfessionalID == nil || *a.ProfessionalID != *flt.ProfessionalID) {
			continue
		}
		if flt.Status != nil && a.Status != *flt.Status {
			continue
		}
		all = append(all, model.AppointmentView{Appointment: a})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Start.After(all[j].Start) })
	total := len(all)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

type recorder struct{ subjects []string }

func (r *recorder) Publish(subj string, _ []byte) error {
	r.subjects = append(r.subjects, subj)
	return nil
}

type fixture struct {
	store   *fakeStore
	pub     *recorder
	svc     Service
	patient uuid.UUID
	doctor  uuid.UUID
}

func newFixture() fixture {
	st := newFakeStore()
	pub := &recorder{}
	patient, doctor := uuid.New(), uuid.New()
	st.patients[patient] = true
	st.employees[doctor] = model.Employee{ID: doctor, FirstName: "Ana", LastName: "Lopez"}
	return fixture{store: st, pub: pub, svc: New(st, pub), patient: patient, doctor: doctor}
}

func (fx fixture) book(t *testing.T, start, end string) model.AppointmentView {
	t.Helper()
	v, err := fx.svc.Create(context.Background(), CreateRequest{
		PatientID:      fx.patient,
		ProfessionalID: &fx.doctor,
		StartDatetime:  start,
		EndDatetime:    end,
	})
	if err != nil {
		t.Fatalf("Create(%s, %s): %v", start, end, err)
	}
	return v
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	v := fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
	if v.Status != model.AppointmentScheduled {
		t.Errorf("status = %s, want SCHEDULED", v.Status)
	}
	if len(fx.store.locked) != 1 || fx.store.locked[0] != fx.doctor {
		t.Errorf("professional lock not taken: %v", fx.store.locked)
	}
	if len(fx.pub.subjects) != 1 || fx.pub.subjects[0] != events.AppointmentCreated.Subject(v.ID) {
		t.Errorf("events = %v", fx.pub.subjects)
	}

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "overlapping booking",
			req:     CreateRequest{PatientID: fx.patient, ProfessionalID: &fx.doctor, StartDatetime: "2024-01-15T10:30:00-06:00", EndDatetime: "2024-01-15T11:30:00-06:00"},
			wantErr: ErrConflict,
		},
		{
			name:    "same instant in another offset",
			req:     CreateRequest{PatientID: fx.patient, ProfessionalID: &fx.doctor, StartDatetime: "2024-01-15T16:00:00Z", EndDatetime: "2024-01-15T17:00:00Z"},
			wantErr: ErrConflict,
		},
		{
			name:    "end before start",
			req:     CreateRequest{PatientID: fx.patient, StartDatetime: "2024-01-15T11:00:00-06:00", EndDatetime: "2024-01-15T10:00:00-06:00"},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "missing offset",
			req:     CreateRequest{PatientID: fx.patient, StartDatetime: "2024-01-15T10:00:00", EndDatetime: "2024-01-15T11:00:00"},
			wantErr: ErrInvalidDatetime,
		},
		{
			name:    "unknown patient",
			req:     CreateRequest{PatientID: uuid.New(), StartDatetime: "2024-01-15T12:00:00-06:00", EndDatetime: "2024-01-15T13:00:00-06:00"},
			wantErr: ErrPatientNotFound,
		},
		{
			name:    "unknown professional",
			req:     CreateRequest{PatientID: fx.patient, ProfessionalID: ptr(uuid.New()), StartDatetime: "2024-01-15T12:00:00-06:00", EndDatetime: "2024-01-15T13:00:00-06:00"},
			wantErr: ErrProfessionalNotFound,
		},
		{
			name:    "type too long",
			req:     CreateRequest{PatientID: fx.patient, AppointmentType: string(make([]byte, 51)), StartDatetime: "2024-01-15T12:00:00-06:00", EndDatetime: "2024-01-15T13:00:00-06:00"},
			wantErr: apperr.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Create(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("back to back is allowed", func(t *testing.T) {
		fx.book(t, "2024-01-15T11:00:00-06:00", "2024-01-15T12:00:00-06:00")
	})

	t.Run("without professional skips the conflict check", func(t *testing.T) {
		_, err := fx.svc.Create(ctx, CreateRequest{PatientID: fx.patient, StartDatetime: "2024-01-15T10:00:00-06:00", EndDatetime: "2024-01-15T11:00:00-06:00"})
		if err != nil {
			t.Fatal(err)
		}
	})
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	v := fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
	if _, err := fx.svc.Cancel(ctx, v.ID); err != nil {
		t.Fatal(err)
	}
	fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
}

func TestStateMachine(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	done := fx.book(t, "2024-01-15T08:00:00-06:00", "2024-01-15T09:00:00-06:00")
	got, err := fx.svc.Complete(ctx, done.ID)
	if err != nil || got.Status != model.AppointmentCompleted {
		t.Fatalf("Complete = %v, %v", got.Status, err)
	}
	if _, err := fx.svc.Cancel(ctx, done.ID); !errors.Is(err, ErrCancelCompleted) {
		t.Errorf("cancel completed: err = %v", err)
	}
	if _, err := fx.svc.Complete(ctx, done.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("complete completed: err = %v", err)
	}

	gone := fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
	if _, err := fx.svc.Cancel(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.svc.Complete(ctx, gone.ID); !errors.Is(err, ErrCompleteCancelled) {
		t.Errorf("complete cancelled: err = %v", err)
	}
	if _, err := fx.svc.Cancel(ctx, gone.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("cancel cancelled: err = %v", err)
	}

	if _, err := fx.svc.Cancel(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel unknown: err = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()

	first := fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
	second := fx.book(t, "2024-01-15T12:00:00-06:00", "2024-01-15T13:00:00-06:00")

	t.Run("shift within own slot", func(t *testing.T) {
		got, err := fx.svc.Update(ctx, first.ID, UpdateRequest{EndDatetime: ptr("2024-01-15T11:30:00-06:00")})
		if err != nil {
			t.Fatal(err)
		}
		if got.End.Sub(got.Start) != 90*time.Minute {
			t.Errorf("duration = %v", got.End.Sub(got.Start))
		}
	})

	t.Run("move onto another appointment", func(t *testing.T) {
		_, err := fx.svc.Update(ctx, first.ID, UpdateRequest{
			StartDatetime: ptr("2024-01-15T12:30:00-06:00"),
			EndDatetime:   ptr("2024-01-15T13:30:00-06:00"),
		})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("err = %v, want conflict", err)
		}
		if fx.store.appts[first.ID].End.Sub(fx.store.appts[first.ID].Start) != 90*time.Minute {
			t.Error("failed update changed the stored appointment")
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := fx.svc.Update(ctx, second.ID, UpdateRequest{EndDatetime: ptr("2024-01-15T11:00:00-06:00")})
		if !errors.Is(err, ErrInvalidTimeRange) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("terminal appointment", func(t *testing.T) {
		if _, err := fx.svc.Complete(ctx, second.ID); err != nil {
			t.Fatal(err)
		}
		_, err := fx.svc.Update(ctx, second.ID, UpdateRequest{StartDatetime: ptr("2024-01-15T11:45:00-06:00")})
		if !errors.Is(err, ErrRescheduleTerminal) {
			t.Fatalf("err = %v, want ErrRescheduleTerminal", err)
		}
		got, err := fx.svc.Update(ctx, second.ID, UpdateRequest{Notes: ptr("patient arrived late")})
		if err != nil || got.Notes != "patient arrived late" {
			t.Fatalf("notes update = %q, %v", got.Notes, err)
		}
	})

	rescheduled := 0
	for _, s := range fx.pub.subjects {
		if s == events.AppointmentRescheduled.Subject(first.ID) {
			rescheduled++
		}
	}
	if rescheduled != 1 {
		t.Errorf("rescheduled events = %d, want 1", rescheduled)
	}
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	user := uuid.New()
	emp := fx.store.employees[fx.doctor]
	emp.UserID = &user
	fx.store.employees[fx.doctor] = emp

	fx.book(t, "2024-01-15T10:00:00-06:00", "2024-01-15T11:00:00-06:00")
	fx.book(t, "2024-01-16T10:00:00-06:00", "2024-01-16T11:00:00-06:00")

	items, meta, err := fx.svc.ListMine(ctx, user, model.AppointmentFilter{}, model.Page{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || meta.Total != 2 || meta.TotalPages != 2 || meta.Page != 1 {
		t.Errorf("items %d, meta %+v", len(items), meta)
	}
	if items[0].Start.Day() != 16 {
		t.Errorf("expected newest first, got %v", items[0].Start)
	}

	if _, _, err := fx.svc.ListMine(ctx, uuid.New(), model.AppointmentFilter{}, model.Page{}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
