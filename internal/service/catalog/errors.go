package catalog

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrAreaNotFound      = apperr.NotFound("area not found")
	ErrSpecialtyNotFound = apperr.NotFound("specialty not found")
	ErrAreaExists        = apperr.Conflict("an area with this name already exists")
	ErrSpecialtyExists   = apperr.Conflict("a specialty with this name already exists")
)
