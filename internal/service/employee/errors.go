package employee

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrNotFound          = apperr.NotFound("employee not found")
	ErrEmailTaken        = apperr.Conflict("email is already registered")
	ErrAreaNotFound      = apperr.Validation("area does not exist")
	ErrSpecialtyNotFound = apperr.Validation("one or more specialties do not exist")
	ErrInvalidPhone      = apperr.Validation("phone is not a valid number")
	ErrFutureHireDate    = apperr.Validation("hired_date cannot be in the future")
)
