// Package mailer sends transactional email over one of two transports:
// the SendGrid API when an API key is configured, otherwise the
// organization's own SMTP credentials. Every attempt is durably logged.
package mailer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	"github.com/mandatpro/kommunalcrm/internal/app/system/metrics"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// ErrNotConfigured is returned when neither a provider key nor SMTP
// credentials are available for a send.
var ErrNotConfigured = errors.New("no email transport configured")

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	TextBody string

	// Optional single attachment, base64-encoded.
	AttachmentB64  string
	AttachmentName string
}

// Dispatcher selects a transport by configuration presence and logs every
// attempt. It is safe for concurrent use.
type Dispatcher struct {
	sendgridKey  string
	fromEmail    string // verified sender identity for the provider transport
	fromName     string
	logs         *emaillog.Store
	log          *zap.Logger
	sendSMTP     func(org *models.Organization, e Email) error
	sendProvider func(ctx context.Context, e Email) error
}

// Config holds dispatcher configuration.
type Config struct {
	SendGridKey string
	FromEmail   string
	FromName    string
}

// NewDispatcher creates a Dispatcher. logs may be nil in tests.
func NewDispatcher(cfg Config, logs *emaillog.Store, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sendgridKey: cfg.SendGridKey,
		fromEmail:   cfg.FromEmail,
		fromName:    cfg.FromName,
		logs:        logs,
		log:         logger,
	}
	d.sendSMTP = d.smtpSend
	d.sendProvider = d.sendgridSend
	return d
}

// Send dispatches e, preferring the provider transport when configured and
// falling back to the organization's SMTP bundle. org may be nil when only
// the provider transport is expected. A transport failure is logged and
// returned; there is no retry or queue.
func (d *Dispatcher) Send(ctx context.Context, org *models.Organization, e Email) error {
	transport := ""
	var err error
	switch {
	case d.sendgridKey != "":
		transport = "sendgrid"
		err = d.sendProvider(ctx, e)
	case org.HasSMTP():
		transport = "smtp"
		err = d.sendSMTP(org, e)
	default:
		d.record(ctx, e, "none", ErrNotConfigured)
		return ErrNotConfigured
	}

	d.record(ctx, e, transport, err)
	if err != nil {
		d.log.Error("email send failed",
			zap.String("transport", transport),
			zap.Strings("to", e.To),
			zap.Error(err))
		return err
	}
	d.log.Info("email sent",
		zap.String("transport", transport),
		zap.Int("recipients", len(e.To)))
	return nil
}

// SendViaSMTP forces the SMTP transport regardless of provider
// configuration. Used by the SMTP test endpoint.
func (d *Dispatcher) SendViaSMTP(ctx context.Context, org *models.Organization, e Email) error {
	if !org.HasSMTP() {
		d.record(ctx, e, "smtp", ErrNotConfigured)
		return ErrNotConfigured
	}
	err := d.sendSMTP(org, e)
	d.record(ctx, e, "smtp", err)
	return err
}

func (d *Dispatcher) record(ctx context.Context, e Email, transport string, sendErr error) {
	status := "sent"
	errText := ""
	if sendErr != nil {
		status = "failed"
		errText = sendErr.Error()
	}
	metrics.EmailSends.WithLabelValues(transport, status).Inc()
	if d.logs == nil {
		return
	}
	entry := models.EmailLog{
		To:                 e.To,
		Subject:            e.Subject,
		HasAttachment:      e.AttachmentB64 != "",
		AttachmentFilename: e.AttachmentName,
		Transport:          transport,
		Status:             status,
		Error:              errText,
	}
	if err := d.logs.Record(ctx, entry, e.TextBody); err != nil {
		d.log.Warn("email log write failed", zap.Error(err))
	}
}
