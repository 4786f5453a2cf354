// Package email serves the outbound-mail endpoints: bulk invitation
// sending and the per-organization SMTP connectivity test.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
	"github.com/mandatpro/kommunalcrm/internal/app/system/mailer"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
)

// Sender is the dispatcher surface this feature needs.
type Sender interface {
	Send(ctx context.Context, org *models.Organization, e mailer.Email) error
	SendViaSMTP(ctx context.Context, org *models.Organization, e mailer.Email) error
}

// Handler serves the email endpoints.
type Handler struct {
	Mail Sender
	Orgs *orgstore.Store
	Logs *emaillog.Store
	Log  *zap.Logger
}

// NewHandler constructs the email handler.
func NewHandler(mail Sender, orgs *orgstore.Store, logs *emaillog.Store, logger *zap.Logger) *Handler {
	return &Handler{Mail: mail, Orgs: orgs, Logs: logs, Log: logger}
}

// SendInvitation handles POST /email/send-invitation. The optional
// organization slug selects the SMTP fallback bundle when no provider
// key is configured.
func (h *Handler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To                 []string `json:"to"`
		Subject            string   `json:"subject"`
		Body               string   `json:"body"`
		AttachmentB64      string   `json:"attachment_base64"`
		AttachmentFilename string   `json:"attachment_filename"`
		Organization       string   `json:"organization"`
	}
	if err := httpjson.Decode(r, &req); err != nil || len(req.To) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "recipients are required")
		return
	}

	var org *models.Organization
	if req.Organization != "" {
		found, err := h.Orgs.FindBySlug(r.Context(), req.Organization)
		if err == nil {
			org = found
		}
	}

	e := mailer.Email{
		To:             req.To,
		Subject:        req.Subject,
		TextBody:       req.Body,
		AttachmentB64:  req.AttachmentB64,
		AttachmentName: req.AttachmentFilename,
	}
	if err := h.Mail.Send(r.Context(), org, e); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    fmt.Sprintf("Einladung an %d Empfänger gesendet", len(req.To)),
		"recipients": req.To,
	})
}

// SMTPTest handles POST /smtp/test: sends a German test mail through the
// organization's own SMTP credentials, bypassing the provider transport.
func (h *Handler) SMTPTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Organization string `json:"organization"`
		TestEmail    string `json:"test_email"`
	}
	if err := httpjson.Decode(r, &req); err != nil || req.Organization == "" || req.TestEmail == "" {
		httpjson.Error(w, http.StatusBadRequest, "organization and test_email are required")
		return
	}

	org, err := h.Orgs.FindBySlug(r.Context(), req.Organization)
	if err != nil {
		httpjson.StoreError(w, err, "Organization")
		return
	}

	e := mailer.BuildTestMail(org, req.TestEmail)
	if err := h.Mail.SendViaSMTP(r.Context(), org, e); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			httpjson.Error(w, http.StatusBadRequest, "SMTP ist für diese Organisation nicht konfiguriert")
			return
		}
		h.Log.Warn("smtp test failed",
			zap.String("organization", req.Organization),
			zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Test-E-Mail an " + req.TestEmail + " gesendet",
	})
}

// ListLogs handles GET /email/logs: the most recent send attempts,
// newest first.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.Logs.Recent(r.Context(), limit)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []models.EmailLog{}
	}
	httpjson.Write(w, http.StatusOK, logs)
}
