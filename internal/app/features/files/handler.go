// Package files implements the upload endpoint. Files land on the local
// filesystem under a randomized name and are served back read-only under
// the static uploads prefix.
package files

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/system/httpjson"
)

// 50 MB request cap, matching the largest scanned bank statements seen in
// practice.
const maxUploadBytes = 50 << 20

// Handler serves file uploads.
type Handler struct {
	Dir       string // filesystem directory uploads are written to
	URLPrefix string // public path prefix the files are served under
	Log       *zap.Logger
}

// NewHandler constructs the files handler.
func NewHandler(dir, urlPrefix string, logger *zap.Logger) *Handler {
	return &Handler{Dir: dir, URLPrefix: urlPrefix, Log: logger}
}

type uploadResponse struct {
	FileURL     string `json:"file_url"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload handles POST /files/upload (multipart field "file"). The stored
// name is "<uuid-hex>_<original>" so repeated uploads of the same file
// never collide.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		httpjson.Error(w, http.StatusBadRequest, "No file provided")
		return
	}

	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	name := fmt.Sprintf("%s_%s", id, filepath.Base(header.Filename))
	path := filepath.Join(h.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		h.Log.Error("upload create failed", zap.String("path", path), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		h.Log.Error("upload write failed", zap.String("path", path), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	h.Log.Info("file uploaded",
		zap.String("stored_as", name),
		zap.Int64("size", size))
	httpjson.Write(w, http.StatusOK, uploadResponse{
		FileURL:     h.URLPrefix + "/" + name,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        size,
	})
}
