package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

func registerCatalogRoutes(api fiber.Router, ch *handler.CatalogHandler, requirePerm permFunc) {
	areas := api.Group("/areas")
	areas.Get("/", requirePerm(authorize.ResourceArea, authorize.ActionList), ch.ListAreas)
	areas.Post("/", requirePerm(authorize.ResourceArea, authorize.ActionCreate), ch.CreateArea)
	areas.Get("/:id", requirePerm(authorize.ResourceArea, authorize.ActionRead), ch.GetArea)
	areas.Patch("/:id", requirePerm(authorize.ResourceArea, authorize.ActionUpdate), ch.UpdateArea)

	specs := api.Group("/specialties")
	specs.Get("/", requirePerm(authorize.ResourceSpecialty, authorize.ActionList), ch.ListSpecialties)
	specs.Post("/", requirePerm(authorize.ResourceSpecialty, authorize.ActionCreate), ch.CreateSpecialty)
	specs.Get("/:id", requirePerm(authorize.ResourceSpecialty, authorize.ActionRead), ch.GetSpecialty)
	specs.Patch("/:id", requirePerm(authorize.ResourceSpecialty, authorize.ActionUpdate), ch.UpdateSpecialty)
}
