// Package pdf builds the printable meeting documents. The endpoints
// return ready-to-render HTML; the client turns it into a PDF locally.
package pdf

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
)

// Handler serves the PDF generation endpoints.
type Handler struct {
	Log *zap.Logger

	sanitize *bluemonday.Policy
	// Now is injected in tests so the letterhead date is stable.
	Now func() time.Time
}

// NewHandler constructs the PDF handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
		Now:      time.Now,
	}
}

var invitationTmpl = template.Must(template.New("invitation").Parse(`
    <div style="font-family: Arial, sans-serif; padding: 40px;">
        <div style="text-align: right; margin-bottom: 30px;">
            <p>{{.OrganizationName}}</p>
            <p>{{.OrganizationAddress}}</p>
            <p>{{.Date}}</p>
        </div>

        <h1 style="font-size: 18px; margin-bottom: 20px;">
            Einladung zur {{.Title}}
        </h1>

        <p><strong>Datum:</strong> {{.MeetingDate}}</p>
        <p><strong>Ort:</strong> {{.Location}}</p>

        <h2 style="font-size: 14px; margin-top: 20px;">Tagesordnung:</h2>
        <pre style="white-space: pre-wrap;">{{.Agenda}}</pre>

        <div style="margin-top: 30px;">
            {{.InvitationText}}
        </div>

        <div style="margin-top: 40px;">
            <p>Mit freundlichen Grüßen</p>
            <p>{{.SenderName}}</p>
        </div>
    </div>
`))

var protocolTmpl = template.Must(template.New("protocol").Parse(`
    <div style="font-family: Arial, sans-serif; padding: 40px;">
        <h1 style="font-size: 20px; text-align: center; margin-bottom: 30px;">
            PROTOKOLL
        </h1>

        <h2 style="font-size: 16px;">{{.Title}}</h2>

        <table style="width: 100%; margin: 20px 0; border-collapse: collapse;">
            <tr>
                <td style="padding: 8px; border: 1px solid #ddd; width: 30%;"><strong>Datum:</strong></td>
                <td style="padding: 8px; border: 1px solid #ddd;">{{.MeetingDate}}</td>
            </tr>
            <tr>
                <td style="padding: 8px; border: 1px solid #ddd;"><strong>Ort:</strong></td>
                <td style="padding: 8px; border: 1px solid #ddd;">{{.Location}}</td>
            </tr>
            <tr>
                <td style="padding: 8px; border: 1px solid #ddd;"><strong>Anwesend:</strong></td>
                <td style="padding: 8px; border: 1px solid #ddd;">{{.Attendees}}</td>
            </tr>
        </table>

        <h3 style="font-size: 14px;">Tagesordnung:</h3>
        <pre style="white-space: pre-wrap; background: #f5f5f5; padding: 15px;">{{.Agenda}}</pre>

        <h3 style="font-size: 14px; margin-top: 20px;">Protokoll:</h3>
        <div style="white-space: pre-wrap;">{{.Protocol}}</div>

        <div style="margin-top: 50px; display: flex; justify-content: space-between;">
            <div style="width: 45%;">
                <p>_________________________</p>
                <p>Protokollführer/in</p>
            </div>
            <div style="width: 45%;">
                <p>_________________________</p>
                <p>Sitzungsleiter/in</p>
            </div>
        </div>
    </div>
`))

// GenerateInvitation handles POST /pdf/generate-invitation.
func (h *Handler) GenerateInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title               string `json:"title"`
		Date                string `json:"date"`
		Location            string `json:"location"`
		Agenda              string `json:"agenda"`
		InvitationText      string `json:"invitation_text"`
		SenderName          string `json:"sender_name"`
		OrganizationName    string `json:"organization_name"`
		OrganizationAddress string `json:"organization_address"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	heading := req.Title
	if heading == "" {
		heading = "Fraktionssitzung"
	}
	orgName := req.OrganizationName
	if orgName == "" {
		orgName = "Organisation"
	}

	html, err := h.render(invitationTmpl, map[string]string{
		"OrganizationName":    h.clean(orgName),
		"OrganizationAddress": h.clean(req.OrganizationAddress),
		"Date":                h.Now().Format("02.01.2006"),
		"Title":               h.clean(heading),
		"MeetingDate":         h.clean(req.Date),
		"Location":            h.clean(req.Location),
		"Agenda":              h.clean(req.Agenda),
		"InvitationText":      h.clean(req.InvitationText),
		"SenderName":          h.clean(req.SenderName),
	})
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = "Einladung"
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"html":     html,
		"title":    title,
		"filename": documentFilename("Einladung", req.Title),
	})
}

// GenerateProtocol handles POST /pdf/generate-protocol.
func (h *Handler) GenerateProtocol(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string   `json:"title"`
		Date      string   `json:"date"`
		Location  string   `json:"location"`
		Attendees []string `json:"attendees"`
		Agenda    string   `json:"agenda"`
		Protocol  string   `json:"protocol"`
	}
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	heading := req.Title
	if heading == "" {
		heading = "Fraktionssitzung"
	}

	html, err := h.render(protocolTmpl, map[string]string{
		"Title":       h.clean(heading),
		"MeetingDate": h.clean(req.Date),
		"Location":    h.clean(req.Location),
		"Attendees":   h.clean(strings.Join(req.Attendees, ", ")),
		"Agenda":      h.clean(req.Agenda),
		"Protocol":    h.clean(req.Protocol),
	})
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = "Protokoll"
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"html":     html,
		"title":    title,
		"filename": documentFilename("Protokoll", req.Title),
	})
}

func (h *Handler) render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// clean strips any markup from a caller-supplied value before it is
// embedded in the generated document.
func (h *Handler) clean(s string) string {
	return h.sanitize.Sanitize(s)
}

func documentFilename(kind, title string) string {
	if title == "" {
		title = "Sitzung"
	}
	return kind + "_" + strings.ReplaceAll(title, " ", "_") + ".pdf"
}
