package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/service/patient"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// GET /patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	var f model.PatientFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := model.PatientStatus(strings.ToUpper(s))
		if st != model.PatientActive && st != model.PatientInactive {
			return fail(c, apperr.Validationf("unknown status %q", s))
		}
		f.Status = &st
	}
	f.Search = strings.TrimSpace(c.Query("search"))

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

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	pt, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, pt)
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var req patient.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	pt, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, pt)
}

// PATCH /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req patient.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	pt, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, pt)
}

// GET /patients/:id/appointments
func (h *PatientHandler) Appointments(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p, err := pageQuery(c)
	if err != nil {
		return fail(c, err)
	}
	items, meta, err := h.svc.Appointments(c.Context(), id, p)
	if err != nil {
		return fail(c, err)
	}
	return page(c, items, meta)
}
