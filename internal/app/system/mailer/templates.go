package mailer

import (
	"fmt"
	"strings"

	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// BuildReminder composes the German reminder mail for a meeting in the
// next 24 hours.
func BuildReminder(m *models.Meeting, to []string) Email {
	var b strings.Builder
	b.WriteString("Hallo,\n\n")
	b.WriteString(fmt.Sprintf("dies ist eine Erinnerung an den anstehenden Termin \"%s\".\n\n", m.Title))
	b.WriteString(fmt.Sprintf("Datum: %s\n", m.Date))
	if m.Location != "" {
		b.WriteString(fmt.Sprintf("Ort: %s\n", m.Location))
	}
	if m.Agenda != "" {
		b.WriteString("\nTagesordnung:\n")
		b.WriteString(m.Agenda)
		b.WriteString("\n")
	}
	b.WriteString("\nMit freundlichen Grüßen,\nDer Vorstand")

	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Erinnerung: %s", m.Title),
		TextBody: b.String(),
	}
}

// BuildTestMail composes the mail sent by the SMTP connectivity check.
func BuildTestMail(org *models.Organization, to string) Email {
	name := org.DisplayName
	if name == "" {
		name = org.Name
	}
	body := fmt.Sprintf("Hallo,\n\ndies ist eine Test-E-Mail von %s.\n\n"+
		"Wenn Sie diese Nachricht erhalten, ist der E-Mail-Versand korrekt konfiguriert.\n\n"+
		"Mit freundlichen Grüßen,\nIhr KommunalCRM", name)

	return Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("Test-E-Mail von %s", name),
		TextBody: body,
	}
}
