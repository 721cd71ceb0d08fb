package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

func registerAppointmentRoutes(api fiber.Router, ah *handler.AppointmentHandler, requirePerm permFunc) {
	appts := api.Group("/appointments")

	// static paths before /:id
	appts.Get("/mine", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.Mine)
	appts.Get("/availability", requirePerm(authorize.ResourceAvailability, authorize.ActionRead), ah.Availability)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.List)
	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Create)

	a := appts.Group("/:id")
	a.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionRead), ah.Get)
	a.Patch("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Update)
	a.Patch("/cancel", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Cancel)
	a.Patch("/complete", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Complete)
}
