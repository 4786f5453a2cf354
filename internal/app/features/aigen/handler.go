// Package aigen exposes the AI generation endpoints: task-specific text
// generation plus vision scans of uploaded receipts and bank statements.
package aigen

import (
	"context"
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/system/ai"
	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
)

// Handler serves the AI endpoints.
type Handler struct {
	AI        *ai.Client
	UploadDir string // where /files/upload stores files, for scan lookups
	URLPrefix string // public prefix stripped from scan file_urls
	Log       *zap.Logger
}

// NewHandler constructs the AI handler.
func NewHandler(client *ai.Client, uploadDir, urlPrefix string, logger *zap.Logger) *Handler {
	return &Handler{AI: client, UploadDir: uploadDir, URLPrefix: urlPrefix, Log: logger}
}

// writeAIError maps gateway sentinel errors to transport statuses.
func writeAIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		httpjson.Error(w, http.StatusInternalServerError, "LLM API key not configured")
	case errors.Is(err, ai.ErrRateLimited):
		httpjson.Error(w, http.StatusTooManyRequests, "LLM provider rate limited, try again later")
	default:
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
	}
}

// GenerateEmail handles POST /ai/generate-email. The model is instructed
// to answer with {"subject","body"} JSON; a non-JSON answer falls back to
// "Betreff:" line parsing.
func (h *Handler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic            string `json:"topic"`
		TemplateType     string `json:"template_type"`
		OrganizationName string `json:"organization_name"`
	}
	if err := httpjson.Decode(r, &req); err != nil || req.Topic == "" {
		httpjson.Error(w, http.StatusBadRequest, "topic is required")
		return
	}

	system := ai.EmailSystemPrompt(req.OrganizationName)
	prompt := "Erstelle eine E-Mail zum Thema: " + req.Topic
	if req.TemplateType != "" {
		prompt += "\nVorlagentyp: " + req.TemplateType
	}

	raw, err := h.AI.Complete(r.Context(), ai.TaskEmail, system, prompt)
	if err != nil {
		writeAIError(w, err)
		return
	}
	subject, body := ai.ParseEmail(raw)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"subject": subject,
		"body":    body,
		"success": true,
	})
}

// GenerateText handles POST /ai/generate-text: the generic endpoint with a
// caller-selectable task type and optional system prompt override.
func (h *Handler) GenerateText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt        string `json:"prompt"`
		SystemMessage string `json:"system_message"`
		TaskType      string `json:"task_type"`
	}
	if err := httpjson.Decode(r, &req); err != nil || req.Prompt == "" {
		httpjson.Error(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if req.TaskType == "" {
		req.TaskType = ai.TaskGeneral
	}
	h.complete(w, r.Context(), req.TaskType, req.SystemMessage, req.Prompt)
}

// GenerateProtocol handles POST /ai/generate-protocol.
func (h *Handler) GenerateProtocol(w http.ResponseWriter, r *http.Request) {
	h.fixedTask(w, r, ai.TaskProtocol)
}

// GenerateInvitation handles POST /ai/generate-invitation.
func (h *Handler) GenerateInvitation(w http.ResponseWriter, r *http.Request) {
	h.fixedTask(w, r, ai.TaskInvitation)
}

// GenerateNotice handles POST /ai/generate-notice (Gebührenbescheid).
func (h *Handler) GenerateNotice(w http.ResponseWriter, r *http.Request) {
	h.fixedTask(w, r, ai.TaskNotice)
}

func (h *Handler) fixedTask(w http.ResponseWriter, r *http.Request, task string) {
	var req struct {
		Prompt  string `json:"prompt"`
		Context string `json:"context"`
	}
	if err := httpjson.Decode(r, &req); err != nil || req.Prompt == "" {
		httpjson.Error(w, http.StatusBadRequest, "prompt is required")
		return
	}
	prompt := req.Prompt
	if req.Context != "" {
		prompt += "\n\nKontext:\n" + req.Context
	}
	h.complete(w, r.Context(), task, "", prompt)
}

func (h *Handler) complete(w http.ResponseWriter, ctx context.Context, task, system, prompt string) {
	content, err := h.AI.Complete(ctx, task, system, prompt)
	if err != nil {
		writeAIError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"content": content,
		"success": true,
	})
}

// ScanReceipt handles POST /ai/scan-receipt: vision extraction of booking
// data from an uploaded receipt image.
func (h *Handler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, ai.TaskReceipt,
		"Extrahiere die Buchungsdaten aus diesem Beleg.")
}

// ScanBankStatement handles POST /ai/scan-bank-statement: vision
// extraction of all transactions from an uploaded bank statement.
func (h *Handler) ScanBankStatement(w http.ResponseWriter, r *http.Request) {
	h.scan(w, r, ai.TaskBankStmt,
		"Extrahiere alle Umsätze aus diesem Kontoauszug.")
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request, task, prompt string) {
	var req struct {
		FileURL      string `json:"file_url"`
		Organization string `json:"organization"`
	}
	if err := httpjson.Decode(r, &req); err != nil || req.FileURL == "" {
		httpjson.Error(w, http.StatusBadRequest, "file_url is required")
		return
	}

	imageB64, mimeType, err := h.loadUpload(req.FileURL)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "uploaded file not found")
		return
	}

	raw, err := h.AI.CompleteWithImage(r.Context(), task, prompt, imageB64, mimeType)
	if err != nil {
		writeAIError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    ai.ParseJSONOrRaw(raw),
	})
}

// loadUpload resolves an upload file_url back to the stored file and
// returns it base64-encoded with its mime type. Only names directly under
// the upload directory are accepted.
func (h *Handler) loadUpload(fileURL string) (b64, mimeType string, err error) {
	name := filepath.Base(strings.TrimPrefix(fileURL, h.URLPrefix))
	data, err := os.ReadFile(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", "", err
	}
	mimeType = mime.TypeByExtension(filepath.Ext(name))
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		mimeType = "image/jpeg"
	}
	return base64.StdEncoding.EncodeToString(data), mimeType, nil
}
