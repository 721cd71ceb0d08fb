package appointment

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrNotFound             = apperr.NotFound("appointment not found")
	ErrEmployeeNotFound     = apperr.NotFound("no employee is linked to this user")
	ErrConflict             = apperr.Conflict("professional already has an appointment in this time range")
	ErrInvalidTimeRange     = apperr.Validation("end_datetime must be after start_datetime")
	ErrInvalidDatetime      = apperr.Validation("datetimes must be RFC 3339 with an explicit offset")
	ErrPatientNotFound      = apperr.Validation("patient does not exist")
	ErrProfessionalNotFound = apperr.Validation("professional does not exist")
	ErrAlreadyCancelled     = apperr.InvalidState("appointment is already cancelled")
	ErrCancelCompleted      = apperr.InvalidState("cannot cancel a completed appointment")
	ErrCompleteCancelled    = apperr.InvalidState("cannot complete a cancelled appointment")
	ErrAlreadyCompleted     = apperr.InvalidState("appointment is already completed")
	ErrRescheduleTerminal   = apperr.InvalidState("cannot change the schedule of a completed or cancelled appointment")
)
