package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridSend delivers the message through the SendGrid v3 API using the
// configured verified sender identity, one API call per recipient so a
// rejected address does not block the rest.
func (d *Dispatcher) sendgridSend(ctx context.Context, e Email) error {
	client := sendgrid.NewSendClient(d.sendgridKey)
	from := sgmail.NewEmail(d.fromName, d.fromEmail)

	var firstErr error
	for _, rcpt := range e.To {
		msg := sgmail.NewSingleEmail(from, e.Subject, sgmail.NewEmail("", rcpt), e.TextBody, "")

		if e.AttachmentB64 != "" {
			att := sgmail.NewAttachment()
			att.SetContent(e.AttachmentB64)
			att.SetType("application/octet-stream")
			att.SetFilename(e.AttachmentName)
			att.SetDisposition("attachment")
			msg.AddAttachment(att)
		}

		resp, err := client.SendWithContext(ctx, msg)
		if err == nil && resp.StatusCode >= 400 {
			err = fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("sendgrid send to %s: %w", rcpt, err)
		}
	}
	return firstErr
}
