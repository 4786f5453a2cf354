package mailer

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// smtpSend delivers one message through the organization's SMTP server:
// STARTTLS handshake, credential login, a single multi-recipient message,
// optional base64 attachment.
func (d *Dispatcher) smtpSend(org *models.Organization, e Email) error {
	port := org.SMTPPort
	if port == "" {
		port = "587"
	}
	addr := net.JoinHostPort(org.SMTPHost, port)

	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: org.SMTPHost}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", org.SMTPUsername, org.SMTPPassword, org.SMTPHost)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	from := org.SMTPFromEmail
	if from == "" {
		from = org.SMTPUsername
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range e.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(org, from, e)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}

// buildMessage assembles the RFC 2822 message, multipart when an
// attachment is present.
func buildMessage(org *models.Organization, from string, e Email) []byte {
	var b strings.Builder

	fromHeader := from
	if org.SMTPFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", org.SMTPFromName), from)
	}
	b.WriteString("From: " + fromHeader + "\r\n")
	b.WriteString("To: " + strings.Join(e.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.AttachmentB64 == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(e.TextBody)
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	const boundary = "kommunalcrm-mail-boundary"
	b.WriteString("Content-Type: multipart/mixed; boundary=" + boundary + "\r\n\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(e.TextBody)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: application/octet-stream\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", e.AttachmentName))
	b.WriteString(wrapB64(e.AttachmentB64))
	b.WriteString("\r\n--" + boundary + "--\r\n")

	return []byte(b.String())
}

// wrapB64 re-wraps base64 content to 76-character lines as required for
// mail transport; invalid input is passed through unchanged.
func wrapB64(b64 string) string {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return b64
	}
	enc := base64.StdEncoding.EncodeToString(raw)
	var b strings.Builder
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	return b.String()
}
