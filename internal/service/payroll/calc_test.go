package payroll

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		emp        model.Employee
		sessions   int
		bonuses    string
		deductions string
		want       model.Amounts
	}{
		{
			name:     "salary plus sessions",
			emp:      model.Employee{BaseSalary: nullDec("4000"), SessionRate: nullDec("200"), IGSSPct: dec("5")},
			sessions: 3, bonuses: "0", deductions: "0",
			want: model.Amounts{
				BaseSalary: dec("4000"), SessionsCount: 3, SessionsAmount: dec("600"),
				IGSSDeduction: dec("230"), TotalPay: dec("4370"),
			},
		},
		{
			name:     "with bonus and deduction",
			emp:      model.Employee{BaseSalary: nullDec("4000"), SessionRate: nullDec("200"), IGSSPct: dec("5")},
			sessions: 3, bonuses: "100", deductions: "50",
			want: model.Amounts{
				BaseSalary: dec("4000"), SessionsCount: 3, SessionsAmount: dec("600"), Bonuses: dec("100"),
				IGSSDeduction: dec("235"), OtherDeductions: dec("50"), TotalPay: dec("4415"),
			},
		},
		{
			name:     "no salary no rate",
			emp:      model.Employee{IGSSPct: dec("4.83")},
			sessions: 7, bonuses: "0", deductions: "0",
			want:     model.Amounts{SessionsCount: 7},
		},
		{
			name:     "igss rounded to cents",
			emp:      model.Employee{BaseSalary: nullDec("3333.33"), IGSSPct: dec("4.83")},
			bonuses:  "0", deductions: "0",
			// 3333.33 * 4.83% = 160.999839 -> 161.00
			want: model.Amounts{BaseSalary: dec("3333.33"), IGSSDeduction: dec("161"), TotalPay: dec("3172.33")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.emp, tt.sessions, dec(tt.bonuses), dec(tt.deductions))
			assertAmounts(t, got, tt.want)

			gross := got.BaseSalary.Add(got.SessionsAmount).Add(got.Bonuses)
			if !got.TotalPay.Equal(gross.Sub(got.IGSSDeduction).Sub(got.OtherDeductions)) {
				t.Errorf("total invariant broken: %+v", got)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	a := Compute(model.Employee{BaseSalary: nullDec("4000"), SessionRate: nullDec("200"), IGSSPct: dec("5")}, 3, decimal.Zero, decimal.Zero)
	a.Bonuses = dec("100")
	got := Recompute(a, dec("5"))
	if !got.IGSSDeduction.Equal(dec("235")) || !got.TotalPay.Equal(dec("4465")) {
		t.Errorf("igss %s total %s, want 235 / 4465", got.IGSSDeduction, got.TotalPay)
	}
	if got.SessionsCount != 3 || !got.SessionsAmount.Equal(dec("600")) {
		t.Errorf("session figures changed: %+v", got)
	}
}

func assertAmounts(t *testing.T, got, want model.Amounts) {
	t.Helper()
	pairs := []struct {
		name      string
		got, want decimal.Decimal
	}{
		{"base", got.BaseSalary, want.BaseSalary},
		{"sessions_amount", got.SessionsAmount, want.SessionsAmount},
		{"bonuses", got.Bonuses, want.Bonuses},
		{"igss", got.IGSSDeduction, want.IGSSDeduction},
		{"other_deductions", got.OtherDeductions, want.OtherDeductions},
		{"total", got.TotalPay, want.TotalPay},
	}
	for _, p := range pairs {
		if !p.got.Equal(p.want) {
			t.Errorf("%s = %s, want %s", p.name, p.got, p.want)
		}
	}
	if got.SessionsCount != want.SessionsCount {
		t.Errorf("sessions_count = %d, want %d", got.SessionsCount, want.SessionsCount)
	}
}
