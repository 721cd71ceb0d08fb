package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/service/clinicalrecord"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

type ClinicalRecordHandler struct {
	svc clinicalrecord.Service
}

func NewClinicalRecordHandler(svc clinicalrecord.Service) *ClinicalRecordHandler {
	return &ClinicalRecordHandler{svc: svc}
}

// caller returns uuid.Nil for requests without a principal.
func caller(c fiber.Ctx) uuid.UUID {
	id, _ := reqctx.UserIDFromContext(c.Context())
	return id
}

// GET /clinical-records
func (h *ClinicalRecordHandler) List(c fiber.Ctx) error {
	var (
		f   model.ClinicalRecordFilter
		err error
	)
	if f.PatientID, err = queryUUID(c, "patientId"); err != nil {
		return fail(c, err)
	}
	if f.ResponsibleID, err = queryUUID(c, "professionalId"); err != nil {
		return fail(c, err)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := model.ClinicalRecordStatus(strings.ToUpper(s))
		if st != model.ClinicalRecordActive && st != model.ClinicalRecordClosed {
			return fail(c, apperr.Validationf("unknown status %q", s))
		}
		f.Status = &st
	}
	p, err := pageQuery(c)
	if err != nil {
		return fail(c, err)
	}
	items, meta, err := h.svc.List(c.Context(), f, p)
	if err != nil {
		return fail(c, err)
	}
	return page(c, items, meta)
}

// GET /clinical-records/me
func (h *ClinicalRecordHandler) Mine(c fiber.Ctx) error {
	userID, authed := reqctx.UserIDFromContext(c.Context())
	if !authed {
		return fail(c, fiber.ErrUnauthorized)
	}
	items, err := h.svc.ListMine(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// GET /clinical-records/:id
func (h *ClinicalRecordHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	r, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}

// POST /clinical-records
func (h *ClinicalRecordHandler) Create(c fiber.Ctx) error {
	var req clinicalrecord.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	r, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, r)
}

// PATCH /clinical-records/:id
func (h *ClinicalRecordHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	r, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}

// GET /clinical-records/:id/sessions
func (h *ClinicalRecordHandler) Sessions(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.svc.Sessions(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// POST /clinical-records/:id/sessions
func (h *ClinicalRecordHandler) AddSession(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.SessionRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	cs, err := h.svc.AddSession(c.Context(), id, caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, cs)
}

// PATCH /clinical-sessions/:id
func (h *ClinicalRecordHandler) UpdateSession(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.SessionUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	cs, err := h.svc.UpdateSession(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cs)
}

// GET /clinical-records/:id/confidential-notes
func (h *ClinicalRecordHandler) Notes(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.svc.Notes(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// POST /clinical-records/:id/confidential-notes
func (h *ClinicalRecordHandler) AddNote(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	n, err := h.svc.AddNote(c.Context(), id, caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, n)
}

// GET /patients/:id/tasks
func (h *ClinicalRecordHandler) Tasks(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.svc.Tasks(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// POST /patients/:id/tasks
func (h *ClinicalRecordHandler) AssignTask(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.TaskRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	t, err := h.svc.AssignTask(c.Context(), id, caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, t)
}

// GET /patients/me/tasks
func (h *ClinicalRecordHandler) MyTasks(c fiber.Ctx) error {
	userID, authed := reqctx.UserIDFromContext(c.Context())
	if !authed {
		return fail(c, fiber.ErrUnauthorized)
	}
	items, err := h.svc.MyTasks(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, items)
}

// PATCH /patients/tasks/:id
func (h *ClinicalRecordHandler) UpdateTask(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clinicalrecord.TaskUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	t, err := h.svc.UpdateTask(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, t)
}
