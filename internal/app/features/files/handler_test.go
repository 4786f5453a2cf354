package files_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/features/files"
	"github.com/mandatpro/kommunalcrm/internal/testutil"
)

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	h := files.NewHandler(dir, "/api/uploads", zap.NewNop())

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "file", "protokoll.pdf", "inhalt"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := testutil.DecodeJSON(t, rec)
	if resp["file_name"] != "protokoll.pdf" {
		t.Errorf("file_name = %v", resp["file_name"])
	}
	if resp["size"] != float64(len("inhalt")) {
		t.Errorf("size = %v", resp["size"])
	}

	fileURL, _ := resp["file_url"].(string)
	if !strings.HasPrefix(fileURL, "/api/uploads/") || !strings.HasSuffix(fileURL, "_protokoll.pdf") {
		t.Fatalf("file_url = %q", fileURL)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(fileURL, "/api/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "inhalt" {
		t.Errorf("stored content = %q", data)
	}
}

func TestUploadNamesAreRandomized(t *testing.T) {
	dir := t.TempDir()
	h := files.NewHandler(dir, "/api/uploads", zap.NewNop())

	urls := map[string]bool{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.Upload(rec, multipartUpload(t, "file", "beleg.jpg", "bild"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		urls[testutil.DecodeJSON(t, rec)["file_url"].(string)] = true
	}
	if len(urls) != 3 {
		t.Errorf("repeated uploads collided: %v", urls)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	h := files.NewHandler(t.TempDir(), "/api/uploads", zap.NewNop())

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "falschesfeld", "x.txt", "x"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if detail := testutil.DecodeJSON(t, rec)["detail"]; detail != "No file provided" {
		t.Errorf("detail = %v", detail)
	}
}
