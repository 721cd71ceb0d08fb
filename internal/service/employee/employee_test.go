package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type fakeStore struct {
	employees   map[uuid.UUID]model.Employee
	areas       map[uuid.UUID]bool
	specialties map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees:   map[uuid.UUID]model.Employee{},
		areas:       map[uuid.UUID]bool{},
		specialties: map[uuid.UUID]bool{},
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) emailTaken(e model.Employee) bool {
	if e.Email == "" {
		return false
	}
	for id, x := range f.employees {
		if id != e.ID && x.Email == e.Email {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateEmployee(_ context.Context, e model.Employee) error {
	if f.emailTaken(e) {
		return database.ErrDuplicate
	}
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, e model.Employee) error {
	if f.emailTaken(e) {
		return database.ErrDuplicate
	}
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id uuid.UUID) (model.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return model.Employee{}, database.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEmployees(_ context.Context, fl model.EmployeeFilter, _ model.Page) ([]model.Employee, int, error) {
	var out []model.Employee
	for _, e := range f.employees {
		if fl.Status != nil && e.Status != *fl.Status {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeStore) AreaExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.areas[id], nil
}

func (f *fakeStore) CountSpecialties(_ context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if f.specialties[id] {
			n++
		}
	}
	return n, nil
}

type recorder struct{ subjects []string }

func (r *recorder) Publish(subj string, _ []byte) error {
	r.subjects = append(r.subjects, subj)
	return nil
}

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*employeeService, *fakeStore, *recorder) {
	t.Helper()
	st := newFakeStore()
	pub := &recorder{}
	svc := New(st, pub, "GT", time.UTC).(*employeeService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, st, pub
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newService(t)
	area, spec := uuid.New(), uuid.New()
	st.areas[area] = true
	st.specialties[spec] = true

	valid := func() CreateRequest {
		return CreateRequest{
			FirstName:    " Ana ",
			LastName:     "Lopez",
			Email:        "Ana@Clinic.GT",
			Phone:        "5512 3456",
			EmployeeType: "PSYCHOLOGIST",
			AreaID:       &area,
			BaseSalary:   ptr(decimal.NewFromInt(4000)),
			SessionRate:  ptr(decimal.NewFromInt(200)),
			IGSSPct:      ptr(decimal.NewFromInt(5)),
			SpecialtyIDs: []uuid.UUID{spec, spec},
		}
	}

	e, err := svc.Create(ctx, valid())
	if err != nil {
		t.Fatal(err)
	}
	if e.FirstName != "Ana" || e.Email != "ana@clinic.gt" || e.Phone != "+50255123456" {
		t.Errorf("normalisation: %+v", e)
	}
	if e.Status != model.EmployeeActive || len(e.SpecialtyIDs) != 1 {
		t.Errorf("status %s specialties %v", e.Status, e.SpecialtyIDs)
	}
	if len(pub.subjects) != 1 {
		t.Errorf("events = %v", pub.subjects)
	}

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"duplicate email", func(r *CreateRequest) {}, ErrEmailTaken},
		{"unknown area", func(r *CreateRequest) { r.Email = ""; r.AreaID = ptr(uuid.New()) }, ErrAreaNotFound},
		{"unknown specialty", func(r *CreateRequest) { r.Email = ""; r.SpecialtyIDs = []uuid.UUID{uuid.New()} }, ErrSpecialtyNotFound},
		{"negative salary", func(r *CreateRequest) { r.BaseSalary = ptr(decimal.NewFromInt(-1)) }, apperr.ErrValidation},
		{"igss over 100", func(r *CreateRequest) { r.IGSSPct = ptr(decimal.NewFromInt(101)) }, apperr.ErrValidation},
		{"bad phone", func(r *CreateRequest) { r.Phone = "12" }, ErrInvalidPhone},
		{"bad type", func(r *CreateRequest) { r.EmployeeType = "JANITOR" }, apperr.ErrValidation},
		{"future hire", func(r *CreateRequest) { r.HiredDate = &timerange.Date{Year: 2024, Month: time.June, Day: 2} }, ErrFutureHireDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			if _, err := svc.Create(ctx, req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("no email no event", func(t *testing.T) {
		pub.subjects = nil
		req := valid()
		req.Email = ""
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatal(err)
		}
		if len(pub.subjects) != 0 {
			t.Errorf("events = %v", pub.subjects)
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newService(t)
	spec := uuid.New()
	st.specialties[spec] = true

	e, err := svc.Create(ctx, CreateRequest{FirstName: "Luis", LastName: "Perez", EmployeeType: "PSYCHIATRIST"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Update(ctx, e.ID, UpdateRequest{
		Status:       ptr(model.EmployeeInactive),
		SpecialtyIDs: &[]uuid.UUID{spec},
		SessionRate:  ptr(decimal.NewFromInt(150)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.EmployeeInactive || !got.HasSpecialty(spec) || !got.SessionRate.Decimal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("got %+v", got)
	}
	if got.FirstName != "Luis" {
		t.Errorf("untouched field changed: %q", got.FirstName)
	}

	if _, err := svc.Update(ctx, e.ID, UpdateRequest{AreaID: ptr(uuid.New())}); !errors.Is(err, ErrAreaNotFound) {
		t.Errorf("unknown area: err = %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), UpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown employee: err = %v", err)
	}
	if _, err := svc.Update(ctx, e.ID, UpdateRequest{Status: ptr(model.EmployeeStatus("GONE"))}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad status: err = %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	for _, n := range []string{"Ana", "Bea", "Cai"} {
		if _, err := svc.Create(ctx, CreateRequest{FirstName: n, LastName: "Diaz", EmployeeType: "TECHNICIAN"}); err != nil {
			t.Fatal(err)
		}
	}
	items, meta, err := svc.List(ctx, model.EmployeeFilter{}, model.Page{Limit: 500})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || meta.Total != 3 || meta.Limit != 100 || meta.Page != 1 || meta.TotalPages != 1 {
		t.Errorf("items %d meta %+v", len(items), meta)
	}
}
