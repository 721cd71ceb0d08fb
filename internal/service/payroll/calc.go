package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Compute derives a record's amounts from the employee's pay terms, the number
// of completed sessions and the manually entered adjustments.
//
//	igss  = (base + sessions_amount + bonuses) * igss% / 100, rounded to cents
//	total = base + sessions_amount + bonuses - igss - other_deductions
func Compute(emp model.Employee, sessions int, bonuses, otherDeductions decimal.Decimal) model.Amounts {
	base := decimal.Zero
	if emp.BaseSalary.Valid {
		base = emp.BaseSalary.Decimal
	}
	rate := decimal.Zero
	if emp.SessionRate.Valid {
		rate = emp.SessionRate.Decimal
	}

	sessionsAmount := rate.Mul(decimal.NewFromInt(int64(sessions)))
	gross := base.Add(sessionsAmount).Add(bonuses)
	igss := gross.Mul(emp.IGSSPct).Div(hundred).Round(2)

	return model.Amounts{
		BaseSalary:      base,
		SessionsCount:   sessions,
		SessionsAmount:  sessionsAmount,
		Bonuses:         bonuses,
		IGSSDeduction:   igss,
		OtherDeductions: otherDeductions,
		TotalPay:        gross.Sub(igss).Sub(otherDeductions),
	}
}

// Recompute refreshes igss and total after a manual adjustment, keeping the
// stored base and session figures.
func Recompute(a model.Amounts, igssPct decimal.Decimal) model.Amounts {
	gross := a.BaseSalary.Add(a.SessionsAmount).Add(a.Bonuses)
	a.IGSSDeduction = gross.Mul(igssPct).Div(hundred).Round(2)
	a.TotalPay = gross.Sub(a.IGSSDeduction).Sub(a.OtherDeductions)
	return a
}
