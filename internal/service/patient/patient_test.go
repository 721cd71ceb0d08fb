package patient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/repo/migrate"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/crypto"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type fakeStore struct {
	patients map[uuid.UUID]model.Patient
	apptF    model.AppointmentFilter
}

// uniqueErr mimics the repository: ErrDuplicate wrapping the driver error.
func (f *fakeStore) uniqueErr(p model.Patient) error {
	for id, x := range f.patients {
		if id == p.ID {
			continue
		}
		if p.NationalIDHash != "" && x.NationalIDHash == p.NationalIDHash {
			return fmt.Errorf("%w: %w", database.ErrDuplicate, &pq.Error{Code: "23505", Constraint: migrate.PatientsNationalIDHashKey})
		}
		if p.UserID != nil && x.UserID != nil && *x.UserID == *p.UserID {
			return fmt.Errorf("%w: %w", database.ErrDuplicate, &pq.Error{Code: "23505", Constraint: migrate.PatientsUserIDKey})
		}
	}
	return nil
}

func (f *fakeStore) CreatePatient(_ context.Context, p model.Patient) error {
	if err := f.uniqueErr(p); err != nil {
		return err
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakeStore) UpdatePatient(_ context.Context, p model.Patient) error {
	if err := f.uniqueErr(p); err != nil {
		return err
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakeStore) GetPatient(_ context.Context, id uuid.UUID) (model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return model.Patient{}, database.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListPatients(_ context.Context, fl model.PatientFilter, _ model.Page) ([]model.Patient, int, error) {
	var out []model.Patient
	for _, p := range f.patients {
		if fl.SearchHash != "" && p.NationalIDHash != fl.SearchHash && p.FirstName != fl.Search {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeStore) ListAppointments(_ context.Context, fl model.AppointmentFilter, _ model.Page) ([]model.AppointmentView, int, error) {
	f.apptF = fl
	return nil, 0, nil
}

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, withKey bool) (Service, *fakeStore) {
	t.Helper()
	st := &fakeStore{patients: map[uuid.UUID]model.Patient{}}
	var fc *crypto.FieldCipher
	if withKey {
		k, err := crypto.KeyFromHex(testKey)
		if err != nil {
			t.Fatal(err)
		}
		if fc, err = crypto.NewFieldCipher(k); err != nil {
			t.Fatal(err)
		}
	}
	svc := New(st, fc, "GT", time.UTC).(*patientService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, st
}

func TestCreateEncryptsNationalID(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, true)

	p, err := svc.Create(ctx, CreateRequest{
		FirstName:  "Maria",
		LastName:   "Gomez",
		Phone:      "5512-3456",
		NationalID: " 2345678900101 ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.NationalID != "2345678900101" || p.Phone != "+50255123456" || p.Status != model.PatientActive {
		t.Errorf("returned %+v", p)
	}

	stored := st.patients[p.ID]
	if stored.NationalID == "" || stored.NationalID == "2345678900101" {
		t.Errorf("stored national id not encrypted: %q", stored.NationalID)
	}
	if stored.NationalIDHash != svc.(*patientService).cipher.Index("2345678900101") {
		t.Errorf("hash = %q", stored.NationalIDHash)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NationalID != "2345678900101" || got.NationalIDHash != "" {
		t.Errorf("get = %q / %q", got.NationalID, got.NationalIDHash)
	}

	_, err = svc.Create(ctx, CreateRequest{FirstName: "Otra", LastName: "Persona", NationalID: "2345678900101"})
	if !errors.Is(err, ErrNationalIDTaken) || !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate: err = %v", err)
	}

	items, _, err := svc.List(ctx, model.PatientFilter{Search: "2345678900101"}, model.Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].NationalID != "2345678900101" {
		t.Errorf("search by national id = %+v", items)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"missing names", CreateRequest{}, apperr.ErrValidation},
		{"bad gender", CreateRequest{FirstName: "Ana", LastName: "Ruiz", Gender: "X"}, apperr.ErrValidation},
		{"bad email", CreateRequest{FirstName: "Ana", LastName: "Ruiz", Email: "nope"}, apperr.ErrValidation},
		{"bad phone", CreateRequest{FirstName: "Ana", LastName: "Ruiz", Phone: "1"}, ErrInvalidPhone},
		{"future birth", CreateRequest{FirstName: "Ana", LastName: "Ruiz", DateOfBirth: &timerange.Date{Year: 2025, Month: 1, Day: 1}}, ErrInvalidBirthDate},
		{"ancient birth", CreateRequest{FirstName: "Ana", LastName: "Ruiz", DateOfBirth: &timerange.Date{Year: 1899, Month: 12, Day: 31}}, ErrInvalidBirthDate},
		{"no key", CreateRequest{FirstName: "Ana", LastName: "Ruiz", NationalID: "123"}, ErrEncryptionDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, true)

	p, err := svc.Create(ctx, CreateRequest{FirstName: "Maria", LastName: "Gomez", NationalID: "111"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Update(ctx, p.ID, UpdateRequest{
		Address: ptr("Zona 10"),
		Status:  ptr(model.PatientInactive),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Address != "Zona 10" || got.Status != model.PatientInactive || got.NationalID != "111" {
		t.Errorf("got %+v", got)
	}
	if st.patients[p.ID].NationalIDHash != svc.(*patientService).cipher.Index("111") {
		t.Error("national id hash lost on update")
	}

	got, err = svc.Update(ctx, p.ID, UpdateRequest{NationalID: ptr("")})
	if err != nil {
		t.Fatal(err)
	}
	if got.NationalID != "" || st.patients[p.ID].NationalIDHash != "" {
		t.Error("national id not cleared")
	}

	if _, err := svc.Update(ctx, uuid.New(), UpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown: err = %v", err)
	}
}

func TestUserLink(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, false)
	user := uuid.New()

	a, err := svc.Create(ctx, CreateRequest{UserID: &user, FirstName: "Maria", LastName: "Gomez"})
	if err != nil {
		t.Fatal(err)
	}
	if a.UserID == nil || *a.UserID != user {
		t.Fatalf("user_id = %v", a.UserID)
	}
	_, err = svc.Create(ctx, CreateRequest{UserID: &user, FirstName: "Otra", LastName: "Persona"})
	if !errors.Is(err, ErrUserLinked) || errors.Is(err, ErrNationalIDTaken) {
		t.Fatalf("second link: err = %v", err)
	}

	b, err := svc.Create(ctx, CreateRequest{FirstName: "Otra", LastName: "Persona"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, b.ID, UpdateRequest{UserID: &user}); !errors.Is(err, ErrUserLinked) {
		t.Errorf("update link: err = %v", err)
	}
}

func TestAppointments(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, false)
	p, err := svc.Create(ctx, CreateRequest{FirstName: "Maria", LastName: "Gomez"})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Appointments(ctx, p.ID, model.Page{}); err != nil {
		t.Fatal(err)
	}
	if st.apptF.PatientID == nil || *st.apptF.PatientID != p.ID {
		t.Errorf("filter = %+v", st.apptF)
	}
	if _, _, err := svc.Appointments(ctx, uuid.New(), model.Page{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown: err = %v", err)
	}
}
