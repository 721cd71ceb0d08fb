package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
)

type PayrollHandler struct {
	svc payroll.Service
}

func NewPayrollHandler(svc payroll.Service) *PayrollHandler {
	return &PayrollHandler{svc: svc}
}

// GET /payroll/periods
func (h *PayrollHandler) ListPeriods(c fiber.Ctx) error {
	p, err := pageQuery(c)
	if err != nil {
		return fail(c, err)
	}
	items, meta, err := h.svc.ListPeriods(c.Context(), p)
	if err != nil {
		return fail(c, err)
	}
	return page(c, items, meta)
}

// POST /payroll/periods
func (h *PayrollHandler) CreatePeriod(c fiber.Ctx) error {
	var req payroll.CreatePeriodRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	per, err := h.svc.CreatePeriod(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, per)
}

// GET /payroll/periods/:id
func (h *PayrollHandler) GetPeriod(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	per, err := h.svc.GetPeriod(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, per)
}

// POST /payroll/periods/:id/calculate
func (h *PayrollHandler) Calculate(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	res, err := h.svc.Calculate(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, res)
}

// GET /payroll/periods/:id/records
func (h *PayrollHandler) Records(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	rs, err := h.svc.PeriodRecords(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rs)
}

// POST /payroll/periods/:id/close
func (h *PayrollHandler) Close(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	per, err := h.svc.Close(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, per)
}

// POST /payroll/periods/:id/pay
func (h *PayrollHandler) Pay(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	per, err := h.svc.Pay(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, per)
}

// GET /payroll/periods/:id/export
//
// Responds with a download URL when the workbook was uploaded, otherwise
// streams it as an attachment.
func (h *PayrollHandler) Export(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	exp, err := h.svc.Export(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if exp.URL != "" {
		return ok(c, exp)
	}
	c.Set(fiber.HeaderContentType, exp.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exp.FileName))
	return c.Send(exp.Data)
}

// GET /payroll/records/:id
func (h *PayrollHandler) GetRecord(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	r, err := h.svc.GetRecord(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}

// PATCH /payroll/records/:id
func (h *PayrollHandler) UpdateRecord(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req payroll.UpdateRecordRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	r, err := h.svc.UpdateRecord(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, r)
}
