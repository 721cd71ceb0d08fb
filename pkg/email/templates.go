package email

import (
	"fmt"
	"html"
	"strings"
)

// AppointmentNotice selects the wording of an appointment email.
type AppointmentNotice string

const (
	NoticeCreated     AppointmentNotice = "created"
	NoticeRescheduled AppointmentNotice = "rescheduled"
	NoticeCancelled   AppointmentNotice = "cancelled"
)

// AppointmentEmailData contains what the appointment templates render. Date
// and Time are already formatted in the clinic's timezone.
type AppointmentEmailData struct {
	Email        string
	PatientName  string
	Professional string
	Specialty    string
	Date         string
	Time         string
	Notice       AppointmentNotice
	AppName      string
}

// WelcomeEmailData contains the data for the new-employee email.
type WelcomeEmailData struct {
	Email     string
	FirstName string
	AppName   string
}

// PayslipEmailData carries one employee's payroll record, amounts already
// formatted.
type PayslipEmailData struct {
	Email        string
	EmployeeName string
	PeriodStart  string
	PeriodEnd    string
	Lines        []Line
	Total        string
	AppName      string
}

// Line is one label/value row of a rendered table.
type Line struct {
	Label string
	Value string
}

const layout = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
%s
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">%s</p>
</body>
</html>`

func page(body, appName string) string {
	return fmt.Sprintf(layout, body, html.EscapeString(appName))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// BuildAppointmentEmail renders the patient notice for a booked, moved or
// cancelled appointment.
func BuildAppointmentEmail(data AppointmentEmailData) Message {
	appName := orDefault(data.AppName, "Clinica")
	name := orDefault(data.PatientName, "there")

	var subject, lead string
	switch data.Notice {
	case NoticeRescheduled:
		subject = fmt.Sprintf("Your %s appointment was rescheduled", appName)
		lead = "Your appointment has been moved to a new time."
	case NoticeCancelled:
		subject = fmt.Sprintf("Your %s appointment was cancelled", appName)
		lead = "Your appointment has been cancelled. Contact us to book a new one."
	default:
		subject = fmt.Sprintf("Your %s appointment is confirmed", appName)
		lead = "Your appointment has been booked."
	}

	details := []Line{{"Date", data.Date}, {"Time", data.Time}}
	if data.Professional != "" {
		details = append(details, Line{"Professional", data.Professional})
	}
	if data.Specialty != "" {
		details = append(details, Line{"Specialty", data.Specialty})
	}

	var text, rows strings.Builder
	for _, d := range details {
		fmt.Fprintf(&text, "%s: %s\n", d.Label, d.Value)
		fmt.Fprintf(&rows, "        <tr><td style=\"padding: 4px 12px 4px 0; color: #6b7280;\">%s</td><td>%s</td></tr>\n",
			d.Label, html.EscapeString(d.Value))
	}

	textBody := fmt.Sprintf("Hi %s,\n\n%s\n\n%s\nThe %s Team", name, lead, text.String(), appName)
	htmlBody := page(fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>%s</p>
    <table>
%s    </table>`, html.EscapeString(name), lead, rows.String()), "The "+appName+" Team")

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		Tag:      "appointment." + string(orNotice(data.Notice)),
	}
}

func orNotice(n AppointmentNotice) AppointmentNotice {
	if n == "" {
		return NoticeCreated
	}
	return n
}

// BuildWelcomeEmail greets a newly registered employee.
func BuildWelcomeEmail(data WelcomeEmailData) Message {
	appName := orDefault(data.AppName, "Clinica")
	name := orDefault(data.FirstName, "there")

	subject := fmt.Sprintf("Welcome to %s", appName)
	textBody := fmt.Sprintf(`Hi %s,

You have been added to the %s staff directory. Your administrator will share
your access details separately.

The %s Team`, name, appName, appName)

	htmlBody := page(fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>You have been added to the %s staff directory.</p>
    <p>Your administrator will share your access details separately.</p>`,
		html.EscapeString(name), html.EscapeString(appName)), "The "+appName+" Team")

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		Tag:      "employee.welcome",
	}
}

// BuildPayslipEmail lists the amounts of one paid payroll record.
func BuildPayslipEmail(data PayslipEmailData) Message {
	appName := orDefault(data.AppName, "Clinica")
	name := orDefault(data.EmployeeName, "there")

	subject := fmt.Sprintf("Payslip %s to %s", data.PeriodStart, data.PeriodEnd)

	var text, rows strings.Builder
	for _, l := range data.Lines {
		fmt.Fprintf(&text, "%-18s %12s\n", l.Label, l.Value)
		fmt.Fprintf(&rows, "        <tr><td style=\"padding: 4px 12px 4px 0;\">%s</td><td style=\"text-align: right;\">%s</td></tr>\n",
			html.EscapeString(l.Label), html.EscapeString(l.Value))
	}
	fmt.Fprintf(&text, "%-18s %12s\n", "Total", data.Total)

	textBody := fmt.Sprintf("Hi %s,\n\nYour pay for %s to %s has been issued.\n\n%s\nThe %s Team",
		name, data.PeriodStart, data.PeriodEnd, text.String(), appName)
	htmlBody := page(fmt.Sprintf(`    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your pay for %s to %s has been issued.</p>
    <table>
%s        <tr><td style="padding: 4px 12px 4px 0;"><strong>Total</strong></td><td style="text-align: right;"><strong>%s</strong></td></tr>
    </table>`,
		html.EscapeString(name), html.EscapeString(data.PeriodStart), html.EscapeString(data.PeriodEnd),
		rows.String(), html.EscapeString(data.Total)), "The "+appName+" Team")

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
		Tag:      "payslip",
	}
}
