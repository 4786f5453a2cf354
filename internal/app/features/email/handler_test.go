package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/features/email"
	"github.com/mandatpro/kommunalcrm/internal/app/store/emaillog"
	orgstore "github.com/mandatpro/kommunalcrm/internal/app/store/organizations"
	"github.com/mandatpro/kommunalcrm/internal/app/system/mailer"
	"github.com/mandatpro/kommunalcrm/internal/domain/models"
	"github.com/mandatpro/kommunalcrm/internal/testutil"
)

type fakeSender struct {
	sent     []mailer.Email
	sentOrg  []*models.Organization
	smtpOnly bool
	err      error
}

func (f *fakeSender) Send(ctx context.Context, org *models.Organization, e mailer.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	f.sentOrg = append(f.sentOrg, org)
	return nil
}

func (f *fakeSender) SendViaSMTP(ctx context.Context, org *models.Organization, e mailer.Email) error {
	if !org.HasSMTP() {
		return mailer.ErrNotConfigured
	}
	f.smtpOnly = true
	return f.Send(ctx, org, e)
}

func newTestHandler(t *testing.T) (*email.Handler, *fakeSender, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fix := testutil.NewFixtures(t, db)
	sender := &fakeSender{}
	return email.NewHandler(sender, orgstore.New(db), emaillog.New(db), zap.NewNop()), sender, fix
}

func TestSendInvitation(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.SendInvitation(rec, testutil.JSONRequest(t, http.MethodPost, "/api/email/send-invitation", map[string]any{
		"to":      []string{"a@example.com", "b@example.com"},
		"subject": "Einladung zur Mitgliederversammlung",
		"body":    "Liebe Mitglieder, ...",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := testutil.DecodeJSON(t, rec)
	if resp["message"] != "Einladung an 2 Empfänger gesendet" {
		t.Errorf("message = %v", resp["message"])
	}
	if len(sender.sent) != 1 || len(sender.sent[0].To) != 2 {
		t.Fatalf("sent = %+v", sender.sent)
	}
	if sender.sentOrg[0] != nil {
		t.Errorf("expected nil org without organization field")
	}
}

func TestSendInvitationWithAttachmentAndOrg(t *testing.T) {
	h, sender, fix := newTestHandler(t)
	ctx := context.Background()
	fix.CreateOrganization(ctx, "spd-neustadt", "SPD Neustadt")

	rec := httptest.NewRecorder()
	h.SendInvitation(rec, testutil.JSONRequest(t, http.MethodPost, "/api/email/send-invitation", map[string]any{
		"to":                  []string{"a@example.com"},
		"subject":             "Einladung",
		"body":                "Anbei die Tagesordnung.",
		"attachment_base64":   "JVBERi0xLjQ=",
		"attachment_filename": "tagesordnung.pdf",
		"organization":        "spd-neustadt",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %+v", sender.sent)
	}
	if sender.sent[0].AttachmentName != "tagesordnung.pdf" || sender.sent[0].AttachmentB64 == "" {
		t.Errorf("attachment not forwarded: %+v", sender.sent[0])
	}
	if sender.sentOrg[0] == nil || sender.sentOrg[0].Name != "spd-neustadt" {
		t.Errorf("org = %+v", sender.sentOrg[0])
	}
}

func TestSendInvitationRequiresRecipients(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.SendInvitation(rec, testutil.JSONRequest(t, http.MethodPost, "/api/email/send-invitation", map[string]any{
		"subject": "Einladung", "body": "Text",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSendInvitationTransportError(t *testing.T) {
	h, sender, _ := newTestHandler(t)
	sender.err = mailer.ErrNotConfigured

	rec := httptest.NewRecorder()
	h.SendInvitation(rec, testutil.JSONRequest(t, http.MethodPost, "/api/email/send-invitation", map[string]any{
		"to": []string{"a@example.com"}, "subject": "s", "body": "b",
	}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestSMTPTestUnconfiguredIs400(t *testing.T) {
	h, _, fix := newTestHandler(t)
	ctx := context.Background()
	fix.CreateOrganization(ctx, "demo-org", "Demo Org")

	rec := httptest.NewRecorder()
	h.SMTPTest(rec, testutil.JSONRequest(t, http.MethodPost, "/api/smtp/test", map[string]any{
		"organization": "demo-org", "test_email": "test@example.com",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	if detail, _ := testutil.DecodeJSON(t, rec)["detail"].(string); !strings.Contains(detail, "nicht konfiguriert") {
		t.Errorf("detail = %q", detail)
	}
}

func TestSMTPTestSendsViaSMTP(t *testing.T) {
	h, sender, fix := newTestHandler(t)
	ctx := context.Background()
	org := fix.CreateOrganization(ctx, "demo-org", "Demo Org")
	_, err := fix.DB().Collection("organizations").UpdateByID(ctx, org.ID, bson.M{"$set": bson.M{
		"smtp_host": "smtp.ionos.de", "smtp_port": "587",
		"smtp_username": "vorstand@demo-org.de", "smtp_password": "geheim",
	}})
	if err != nil {
		t.Fatalf("seed smtp config: %v", err)
	}

	rec := httptest.NewRecorder()
	h.SMTPTest(rec, testutil.JSONRequest(t, http.MethodPost, "/api/smtp/test", map[string]any{
		"organization": "demo-org", "test_email": "test@example.com",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !sender.smtpOnly {
		t.Error("expected the SMTP transport to be forced")
	}
	if len(sender.sent) != 1 || sender.sent[0].To[0] != "test@example.com" {
		t.Fatalf("sent = %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].Subject, "Test-E-Mail") {
		t.Errorf("subject = %q", sender.sent[0].Subject)
	}
}

func TestListLogs(t *testing.T) {
	h, _, _ := newTestHandler(t)
	ctx := context.Background()

	entries := []struct {
		subject string
		status  string
		sentAt  string
	}{
		{"Einladung Januar", "sent", "2025-01-10T12:00:00.000000+00:00"},
		{"Einladung Februar", "failed", "2025-02-10T12:00:00.000000+00:00"},
	}
	for _, e := range entries {
		err := h.Logs.Record(ctx, models.EmailLog{
			To:      []string{"a@example.com"},
			Subject: e.subject,
			Status:  e.status,
			SentAt:  e.sentAt,
		}, "Liebe Mitglieder, anbei die Einladung.")
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.ListLogs(rec, httptest.NewRequest(http.MethodGet, "/api/email/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var logs []models.EmailLog
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len = %d", len(logs))
	}
	if logs[0].Subject != "Einladung Februar" {
		t.Errorf("newest first expected, got %q", logs[0].Subject)
	}
	if logs[0].BodyPreview == "" {
		t.Error("body preview missing")
	}

	rec = httptest.NewRecorder()
	h.ListLogs(rec, httptest.NewRequest(http.MethodGet, "/api/email/logs?limit=1", nil))
	logs = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode limited: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("limited len = %d", len(logs))
	}

	rec = httptest.NewRecorder()
	h.ListLogs(rec, httptest.NewRequest(http.MethodGet, "/api/email/logs?limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestSMTPTestUnknownOrganization(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.SMTPTest(rec, testutil.JSONRequest(t, http.MethodPost, "/api/smtp/test", map[string]any{
		"organization": "gibt-es-nicht", "test_email": "test@example.com",
	}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
