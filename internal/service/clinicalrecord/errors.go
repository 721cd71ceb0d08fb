package clinicalrecord

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrNotFound             = apperr.NotFound("clinical record not found")
	ErrSessionNotFound      = apperr.NotFound("clinical session not found")
	ErrTaskNotFound         = apperr.NotFound("patient task not found")
	ErrPatientNotFound      = apperr.NotFound("patient not found")
	ErrEmployeeNotFound     = apperr.NotFound("employee not found")
	ErrNumberTaken          = apperr.Conflict("a clinical record with this record_number already exists")
	ErrPatientInactive      = apperr.Validation("patient is inactive")
	ErrEmployeeInactive     = apperr.Validation("an inactive employee cannot be assigned")
	ErrNoLinkedPatient      = apperr.Validation("the current user has no linked patient")
	ErrRecordOfOtherPatient = apperr.Validation("clinical record does not belong to the patient")
	ErrEmptyTitle           = apperr.Validation("title must not be blank")
	ErrInvalidDatetime      = apperr.Validation("datetimes must be RFC 3339 with an explicit offset")
	ErrEncryptionDisabled   = apperr.Validation("confidential notes cannot be stored: encryption key is not configured")
	ErrRecordClosed         = apperr.InvalidState("clinical record is closed")
)
