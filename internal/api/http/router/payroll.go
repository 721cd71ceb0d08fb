package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

func registerPayrollRoutes(api fiber.Router, ph *handler.PayrollHandler, requirePerm permFunc) {
	pay := api.Group("/payroll")

	periods := pay.Group("/periods")
	periods.Get("/", requirePerm(authorize.ResourcePayroll, authorize.ActionList), ph.ListPeriods)
	periods.Post("/", requirePerm(authorize.ResourcePayroll, authorize.ActionCreate), ph.CreatePeriod)

	p := periods.Group("/:id")
	p.Get("/", requirePerm(authorize.ResourcePayroll, authorize.ActionRead), ph.GetPeriod)
	p.Post("/calculate", requirePerm(authorize.ResourcePayroll, authorize.ActionExecute), ph.Calculate)
	p.Get("/records", requirePerm(authorize.ResourcePayroll, authorize.ActionRead), ph.Records)
	p.Post("/close", requirePerm(authorize.ResourcePayroll, authorize.ActionClose), ph.Close)
	p.Post("/pay", requirePerm(authorize.ResourcePayroll, authorize.ActionPay), ph.Pay)
	p.Get("/export", requirePerm(authorize.ResourcePayroll, authorize.ActionRead), ph.Export)

	records := pay.Group("/records")
	records.Get("/:id", requirePerm(authorize.ResourcePayroll, authorize.ActionRead), ph.GetRecord)
	records.Patch("/:id", requirePerm(authorize.ResourcePayroll, authorize.ActionUpdate), ph.UpdateRecord)
}
