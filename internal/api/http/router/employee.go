package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

func registerEmployeeRoutes(api fiber.Router, eh *handler.EmployeeHandler, requirePerm permFunc) {
	emps := api.Group("/employees")

	emps.Get("/", requirePerm(authorize.ResourceEmployee, authorize.ActionList), eh.List)
	emps.Post("/", requirePerm(authorize.ResourceEmployee, authorize.ActionCreate), eh.Create)

	e := emps.Group("/:id")
	e.Get("/", requirePerm(authorize.ResourceEmployee, authorize.ActionRead), eh.Get)
	e.Patch("/", requirePerm(authorize.ResourceEmployee, authorize.ActionUpdate), eh.Update)

	e.Get("/availability", requirePerm(authorize.ResourceAvailability, authorize.ActionRead), eh.Windows)
	e.Put("/availability", requirePerm(authorize.ResourceAvailability, authorize.ActionUpdate), eh.ReplaceWindows)

	e.Get("/payroll", requirePerm(authorize.ResourcePayroll, authorize.ActionRead), eh.Payroll)
}
