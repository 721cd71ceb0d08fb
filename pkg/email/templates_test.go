package email

import (
	"strings"
	"testing"
)

func TestBuildAppointmentEmail(t *testing.T) {
	tests := []struct {
		notice  AppointmentNotice
		subject string
	}{
		{NoticeCreated, "Your Clinica appointment is confirmed"},
		{NoticeRescheduled, "Your Clinica appointment was rescheduled"},
		{NoticeCancelled, "Your Clinica appointment was cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.notice), func(t *testing.T) {
			m := BuildAppointmentEmail(AppointmentEmailData{
				Email:        "ana@example.com",
				PatientName:  "Ana",
				Professional: "Dr. <b>Ruiz</b>",
				Date:         "2024-01-15",
				Time:         "09:00",
				Notice:       tt.notice,
			})
			if m.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", m.Subject, tt.subject)
			}
			if len(m.To) != 1 || m.To[0] != "ana@example.com" {
				t.Errorf("To = %v", m.To)
			}
			if !strings.Contains(m.TextBody, "Date: 2024-01-15") || !strings.Contains(m.TextBody, "Time: 09:00") {
				t.Errorf("text body missing schedule:\n%s", m.TextBody)
			}
			if strings.Contains(m.HTMLBody, "<b>Ruiz</b>") {
				t.Error("html body is not escaped")
			}
			if strings.Contains(m.TextBody, "Specialty") {
				t.Error("empty specialty should be omitted")
			}
		})
	}
}

func TestBuildWelcomeEmail(t *testing.T) {
	m := BuildWelcomeEmail(WelcomeEmailData{Email: "luis@example.com", AppName: "Centro Mente"})
	if m.Subject != "Welcome to Centro Mente" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if !strings.HasPrefix(m.TextBody, "Hi there,") {
		t.Errorf("missing name fallback:\n%s", m.TextBody)
	}
}

func TestBuildPayslipEmail(t *testing.T) {
	m := BuildPayslipEmail(PayslipEmailData{
		Email:        "ana@example.com",
		EmployeeName: "Ana Lopez",
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-01-31",
		Lines:        []Line{{"Base salary", "4000.00"}, {"IGSS", "-230.00"}},
		Total:        "4370.00",
	})
	if m.Subject != "Payslip 2024-01-01 to 2024-01-31" {
		t.Errorf("Subject = %q", m.Subject)
	}
	for _, want := range []string{"Base salary", "4000.00", "-230.00", "4370.00"} {
		if !strings.Contains(m.TextBody, want) || !strings.Contains(m.HTMLBody, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
