package scheduling

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrEmployeeNotFound   = apperr.NotFound("employee not found")
	ErrInvalidDate        = apperr.Validation("date must be in YYYY-MM-DD format")
	ErrInvalidDayOfWeek   = apperr.Validation("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeRange   = apperr.Validation("end_time must be after start_time")
	ErrOverlappingWindow  = apperr.Validation("availability windows overlap for the same day and specialty")
	ErrSpecialtyNotAssign = apperr.Validation("specialty is not assigned to this employee")
)
