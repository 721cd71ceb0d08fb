package patient

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrNotFound           = apperr.NotFound("patient not found")
	ErrNationalIDTaken    = apperr.Conflict("a patient with this national id already exists")
	ErrUserLinked         = apperr.Conflict("this user is already linked to another patient")
	ErrInvalidPhone       = apperr.Validation("phone is not a valid number")
	ErrInvalidBirthDate   = apperr.Validation("date_of_birth must be between 1900-01-01 and today")
	ErrEncryptionDisabled = apperr.Validation("national_id cannot be stored: encryption key is not configured")
)
