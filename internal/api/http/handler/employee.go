package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/service/employee"
	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
	"github.com/Alijeyrad/clinica_backend/internal/service/scheduling"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
)

type EmployeeHandler struct {
	svc     employee.Service
	sched   scheduling.Service
	payroll payroll.Service
}

func NewEmployeeHandler(svc employee.Service, sched scheduling.Service, pay payroll.Service) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, sched: sched, payroll: pay}
}

// GET /employees
func (h *EmployeeHandler) List(c fiber.Ctx) error {
	var (
		f   model.EmployeeFilter
		err error
	)
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := model.EmployeeStatus(strings.ToUpper(s))
		if st != model.EmployeeActive && st != model.EmployeeInactive {
			return fail(c, apperr.Validationf("unknown status %q", s))
		}
		f.Status = &st
	}
	if f.AreaID, err = queryUUID(c, "areaId"); err != nil {
		return fail(c, err)
	}
	f.EmployeeType = strings.ToUpper(strings.TrimSpace(c.Query("employeeType")))
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

// GET /employees/:id
func (h *EmployeeHandler) Get(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	e, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, e)
}

// POST /employees
func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	var req employee.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, e)
}

// PATCH /employees/:id
func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req employee.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	e, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, e)
}

// GET /employees/:id/availability
func (h *EmployeeHandler) Windows(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ws, err := h.sched.ListWindows(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, ws)
}

// PUT /employees/:id/availability
//
// The body is the complete list of windows; an empty list clears them.
func (h *EmployeeHandler) ReplaceWindows(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var in []scheduling.WindowInput
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	ws, err := h.sched.ReplaceWindows(c.Context(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, ws)
}

// GET /employees/:id/payroll
func (h *EmployeeHandler) Payroll(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	rs, err := h.payroll.EmployeeHistory(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rs)
}
