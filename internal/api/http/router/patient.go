package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

func registerPatientRoutes(api fiber.Router, ph *handler.PatientHandler, requirePerm permFunc) {
	pts := api.Group("/patients")

	pts.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionList), ph.List)
	pts.Post("/", requirePerm(authorize.ResourcePatient, authorize.ActionCreate), ph.Create)

	p := pts.Group("/:id")
	p.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionRead), ph.Get)
	p.Patch("/", requirePerm(authorize.ResourcePatient, authorize.ActionUpdate), ph.Update)
	p.Get("/appointments", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ph.Appointments)
}
