package health_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/features/health"
	"github.com/mandatpro/kommunalcrm/internal/testutil"
)

func TestHealthy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := testutil.DecodeJSON(t, rec)
	if resp["status"] != "healthy" {
		t.Errorf("status = %v", resp["status"])
	}
	if ts, _ := resp["timestamp"].(string); ts == "" {
		t.Error("timestamp missing")
	}
}
