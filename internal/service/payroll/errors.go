package payroll

import "github.com/Alijeyrad/clinica_backend/pkg/apperr"

var (
	ErrPeriodNotFound     = apperr.NotFound("payroll period not found")
	ErrRecordNotFound     = apperr.NotFound("payroll record not found")
	ErrEmployeeNotFound   = apperr.NotFound("employee not found")
	ErrInvalidPeriodRange = apperr.Validation("period_end must be on or after period_start")
	ErrNegativeAmount     = apperr.Validation("bonuses_amount and other_deductions must be greater than or equal to 0")
	ErrCalculateNotOpen   = apperr.InvalidState("period status must be OPEN to calculate")
	ErrAdjustNotOpen      = apperr.InvalidState("period status must be OPEN to edit records")
	ErrCloseNotOpen       = apperr.InvalidState("only OPEN periods can be closed")
	ErrPayNotClosed       = apperr.InvalidState("only CLOSED periods can be paid")
)
