package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/clinica_backend/internal/api/http/handler"
	"github.com/Alijeyrad/clinica_backend/pkg/authorize"
)

// registerClinicalRoutes must run before registerPatientRoutes so that
// /patients/me and /patients/tasks are not taken for /patients/:id.
func registerClinicalRoutes(api fiber.Router, ch *handler.ClinicalRecordHandler, requirePerm permFunc) {
	recs := api.Group("/clinical-records")

	// the caller's own records; any authenticated user linked to a patient
	recs.Get("/me", ch.Mine)

	recs.Get("/", requirePerm(authorize.ResourceClinicalRecord, authorize.ActionList), ch.List)
	recs.Post("/", requirePerm(authorize.ResourceClinicalRecord, authorize.ActionCreate), ch.Create)

	r := recs.Group("/:id")
	r.Get("/", requirePerm(authorize.ResourceClinicalRecord, authorize.ActionRead), ch.Get)
	r.Patch("/", requirePerm(authorize.ResourceClinicalRecord, authorize.ActionUpdate), ch.Update)
	r.Get("/sessions", requirePerm(authorize.ResourceClinicalSession, authorize.ActionList), ch.Sessions)
	r.Post("/sessions", requirePerm(authorize.ResourceClinicalSession, authorize.ActionCreate), ch.AddSession)
	r.Get("/confidential-notes", requirePerm(authorize.ResourceConfidentialNote, authorize.ActionList), ch.Notes)
	r.Post("/confidential-notes", requirePerm(authorize.ResourceConfidentialNote, authorize.ActionCreate), ch.AddNote)

	api.Patch("/clinical-sessions/:id", requirePerm(authorize.ResourceClinicalSession, authorize.ActionUpdate), ch.UpdateSession)

	api.Get("/patients/me/tasks", ch.MyTasks)
	api.Patch("/patients/tasks/:id", requirePerm(authorize.ResourcePatientTask, authorize.ActionUpdate), ch.UpdateTask)
	api.Get("/patients/:id/tasks", requirePerm(authorize.ResourcePatientTask, authorize.ActionList), ch.Tasks)
	api.Post("/patients/:id/tasks", requirePerm(authorize.ResourcePatientTask, authorize.ActionCreate), ch.AssignTask)
}
