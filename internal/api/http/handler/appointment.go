package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/service/appointment"
	"github.com/Alijeyrad/clinica_backend/internal/service/scheduling"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/reqctx"
)

type AppointmentHandler struct {
	svc   appointment.Service
	sched scheduling.Service
}

func NewAppointmentHandler(svc appointment.Service, sched scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, sched: sched}
}

func appointmentFilter(c fiber.Ctx) (model.AppointmentFilter, error) {
	var (
		f   model.AppointmentFilter
		err error
	)
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	if f.ProfessionalID, err = queryUUID(c, "professionalId"); err != nil {
		return f, err
	}
	if f.PatientID, err = queryUUID(c, "patientId"); err != nil {
		return f, err
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := model.AppointmentStatus(strings.ToUpper(s))
		if !st.Valid() {
			return f, apperr.Validationf("unknown status %q", s)
		}
		f.Status = &st
	}
	return f, nil
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	f, err := appointmentFilter(c)
	if err != nil {
		return fail(c, err)
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

// GET /appointments/mine
func (h *AppointmentHandler) Mine(c fiber.Ctx) error {
	userID, authed := reqctx.UserIDFromContext(c.Context())
	if !authed {
		return fail(c, fiber.ErrUnauthorized)
	}
	f, err := appointmentFilter(c)
	if err != nil {
		return fail(c, err)
	}
	p, err := pageQuery(c)
	if err != nil {
		return fail(c, err)
	}
	items, meta, err := h.svc.ListMine(c.Context(), userID, f, p)
	if err != nil {
		return fail(c, err)
	}
	return page(c, items, meta)
}

// GET /appointments/availability
func (h *AppointmentHandler) Availability(c fiber.Ctx) error {
	var (
		req scheduling.CheckRequest
		err error
	)
	req.Date = strings.TrimSpace(c.Query("date"))
	if req.SpecialtyID, err = queryUUID(c, "specialtyId"); err != nil {
		return fail(c, err)
	}
	if req.ProfessionalID, err = queryUUID(c, "professionalId"); err != nil {
		return fail(c, err)
	}
	if req.IncludeUnavailable, err = queryBool(c, "includeUnavailable"); err != nil {
		return fail(c, err)
	}
	res, err := h.sched.CheckAvailability(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// GET /appointments/:id
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	v, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	var req appointment.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	v, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, v)
}

// PATCH /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req appointment.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	v, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}

// PATCH /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	v, err := h.svc.Cancel(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}

// PATCH /appointments/:id/complete
func (h *AppointmentHandler) Complete(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	v, err := h.svc.Complete(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}
