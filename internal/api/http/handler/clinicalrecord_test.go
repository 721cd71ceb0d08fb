package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/service/clinicalrecord"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

type fakeClinical struct {
	clinicalrecord.Service
	err        error
	gotFilter  model.ClinicalRecordFilter
	gotUser    uuid.UUID
	gotSession clinicalrecord.SessionRequest
	gotTask    clinicalrecord.TaskUpdateRequest
}

func (f *fakeClinical) List(_ context.Context, flt model.ClinicalRecordFilter, p model.Page) ([]model.ClinicalRecordView, model.PageMeta, error) {
	f.gotFilter = flt
	return []model.ClinicalRecordView{}, model.NewPageMeta(p.Normalize(), 0), f.err
}

func (f *fakeClinical) ListMine(_ context.Context, userID uuid.UUID) ([]model.ClinicalRecordView, error) {
	f.gotUser = userID
	return []model.ClinicalRecordView{{PatientName: "Maria Gomez"}}, f.err
}

func (f *fakeClinical) AddSession(_ context.Context, _, userID uuid.UUID, req clinicalrecord.SessionRequest) (model.ClinicalSessionView, error) {
	f.gotUser, f.gotSession = userID, req
	return model.ClinicalSessionView{}, f.err
}

func (f *fakeClinical) UpdateTask(_ context.Context, _ uuid.UUID, req clinicalrecord.TaskUpdateRequest) (model.PatientTaskView, error) {
	f.gotTask = req
	return model.PatientTaskView{}, f.err
}

// withUser attaches a principal the way the auth middleware does.
func withUser(id uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.SetContext(reqctx.WithPrincipal(c.Context(), reqctx.Principal{UserID: id}))
		return c.Next()
	}
}

func TestClinicalRecordList(t *testing.T) {
	patientID := uuid.New()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"filters", "?patientId=" + patientID.String() + "&status=closed", http.StatusOK},
		{"bad status", "?status=ARCHIVED", http.StatusBadRequest},
		{"bad professional", "?professionalId=7", http.StatusBadRequest},
		{"page above cap", "?page=1000001", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeClinical{}
			app := fiber.New()
			app.Get("/clinical-records", NewClinicalRecordHandler(svc).List)

			resp, body := do(t, app, http.MethodGet, "/clinical-records"+tt.query, "")
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d (%v)", resp.StatusCode, tt.want, body)
			}
			if tt.want != http.StatusOK {
				return
			}
			if svc.gotFilter.PatientID == nil || *svc.gotFilter.PatientID != patientID {
				t.Errorf("patientId = %v", svc.gotFilter.PatientID)
			}
			if svc.gotFilter.Status == nil || *svc.gotFilter.Status != model.ClinicalRecordClosed {
				t.Errorf("status = %v", svc.gotFilter.Status)
			}
		})
	}
}

func TestClinicalRecordMine(t *testing.T) {
	user := uuid.New()

	t.Run("linked", func(t *testing.T) {
		svc := &fakeClinical{}
		app := fiber.New()
		app.Get("/clinical-records/me", withUser(user), NewClinicalRecordHandler(svc).Mine)

		resp, body := do(t, app, http.MethodGet, "/clinical-records/me", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if svc.gotUser != user {
			t.Errorf("user = %s", svc.gotUser)
		}
		if items, _ := body["data"].([]any); len(items) != 1 {
			t.Errorf("data = %v", body["data"])
		}
	})

	t.Run("not linked", func(t *testing.T) {
		app := fiber.New()
		app.Get("/clinical-records/me", withUser(user),
			NewClinicalRecordHandler(&fakeClinical{err: clinicalrecord.ErrNoLinkedPatient}).Mine)

		resp, body := do(t, app, http.MethodGet, "/clinical-records/me", "")
		if resp.StatusCode != http.StatusBadRequest || body["error"] != clinicalrecord.ErrNoLinkedPatient.Error() {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		app := fiber.New()
		app.Get("/clinical-records/me", NewClinicalRecordHandler(&fakeClinical{}).Mine)

		resp, _ := do(t, app, http.MethodGet, "/clinical-records/me", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	})
}

func TestClinicalSessionCreate(t *testing.T) {
	user := uuid.New()
	recordID := uuid.New()

	t.Run("created by caller", func(t *testing.T) {
		svc := &fakeClinical{}
		app := fiber.New()
		app.Post("/clinical-records/:id/sessions", withUser(user), NewClinicalRecordHandler(svc).AddSession)

		resp, _ := do(t, app, http.MethodPost, "/clinical-records/"+recordID.String()+"/sessions",
			`{"session_datetime":"2024-06-03T10:00:00-06:00","attended":false,"absence_reason":"viaje"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if svc.gotUser != user {
			t.Errorf("user = %s", svc.gotUser)
		}
		if svc.gotSession.Attended == nil || *svc.gotSession.Attended || svc.gotSession.AbsenceReason != "viaje" {
			t.Errorf("request = %+v", svc.gotSession)
		}
	})

	t.Run("closed record", func(t *testing.T) {
		app := fiber.New()
		app.Post("/clinical-records/:id/sessions",
			NewClinicalRecordHandler(&fakeClinical{err: clinicalrecord.ErrRecordClosed}).AddSession)

		resp, body := do(t, app, http.MethodPost, "/clinical-records/"+recordID.String()+"/sessions",
			`{"session_datetime":"2024-06-03T10:00:00Z"}`)
		if resp.StatusCode != http.StatusBadRequest || body["kind"] != "invalid_state" {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		svc := &fakeClinical{}
		app := fiber.New()
		app.Post("/clinical-records/:id/sessions", NewClinicalRecordHandler(svc).AddSession)

		resp, _ := do(t, app, http.MethodPost, "/clinical-records/abc/sessions", `{}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if svc.gotSession.SessionDatetime != "" {
			t.Error("service called with an invalid id")
		}
	})
}

func TestPatientTaskUpdate(t *testing.T) {
	svc := &fakeClinical{}
	app := fiber.New()
	app.Patch("/patients/tasks/:id", NewClinicalRecordHandler(svc).UpdateTask)

	resp, _ := do(t, app, http.MethodPatch, "/patients/tasks/"+uuid.NewString(), `{"status":"COMPLETED"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if svc.gotTask.Status == nil || *svc.gotTask.Status != model.TaskCompleted {
		t.Errorf("status = %v", svc.gotTask.Status)
	}
}
