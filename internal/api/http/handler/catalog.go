package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/service/catalog"
)

// CatalogHandler serves areas and specialties.
type CatalogHandler struct {
	svc catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// GET /areas
func (h *CatalogHandler) ListAreas(c fiber.Ctx) error {
	as, err := h.svc.ListAreas(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, as)
}

// GET /areas/:id
func (h *CatalogHandler) GetArea(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	a, err := h.svc.GetArea(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, a)
}

// POST /areas
func (h *CatalogHandler) CreateArea(c fiber.Ctx) error {
	var req catalog.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	a, err := h.svc.CreateArea(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, a)
}

// PATCH /areas/:id
func (h *CatalogHandler) UpdateArea(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req catalog.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	a, err := h.svc.UpdateArea(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, a)
}

// GET /specialties
func (h *CatalogHandler) ListSpecialties(c fiber.Ctx) error {
	ss, err := h.svc.ListSpecialties(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, ss)
}

// GET /specialties/:id
func (h *CatalogHandler) GetSpecialty(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	s, err := h.svc.GetSpecialty(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}

// POST /specialties
func (h *CatalogHandler) CreateSpecialty(c fiber.Ctx) error {
	var req catalog.CreateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	s, err := h.svc.CreateSpecialty(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, s)
}

// PATCH /specialties/:id
func (h *CatalogHandler) UpdateSpecialty(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req catalog.UpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, err)
	}
	s, err := h.svc.UpdateSpecialty(c.Context(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, s)
}
