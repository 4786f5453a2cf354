package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mandatpro/kommunalcrm/internal/app/features/users"
	userstore "github.com/mandatpro/kommunalcrm/internal/app/store/users"
	"github.com/mandatpro/kommunalcrm/internal/app/system/auth"
	"github.com/mandatpro/kommunalcrm/internal/testutil"
)

func setup(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return users.NewHandler(userstore.New(db), zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestListNeverExposesPasswords(t *testing.T) {
	ctx := context.Background()
	h, fx := setup(t)
	fx.CreateUser(ctx, "a@beispiel.de", "pw", "spd-teststadt")
	fx.CreateUser(ctx, "b@beispiel.de", "pw", "spd-teststadt")
	fx.CreateUser(ctx, "c@anderswo.de", "pw", "cdu-anderswo")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/users?organization=spd-teststadt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var listed []map[string]any
	if err := jsonDecode(rec, &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("members = %d, want 2", len(listed))
	}
	for _, u := range listed {
		if _, leaked := u["password"]; leaked {
			t.Errorf("password leaked for %v", u["email"])
		}
		if u["id"] == nil || u["id"] == "" {
			t.Errorf("missing external id: %v", u)
		}
	}
}

func TestGetAndUpdate(t *testing.T) {
	ctx := context.Background()
	h, fx := setup(t)
	u := fx.CreateUser(ctx, "a@beispiel.de", "geheim", "spd-teststadt")
	id := u.ID.Hex()

	rec := httptest.NewRecorder()
	h.Get(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/"+id, nil), "id", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	view := testutil.DecodeJSON(t, rec)
	if _, leaked := view["password"]; leaked {
		t.Error("password leaked in get")
	}

	rec = httptest.NewRecorder()
	req := testutil.JSONRequest(t, http.MethodPut, "/api/users/"+id, map[string]any{
		"full_name": "Neue Person",
		"password":  "neuesgeheim",
	})
	h.Update(rec, testutil.WithChiURLParam(req, "id", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := testutil.DecodeJSON(t, rec)
	if updated["full_name"] != "Neue Person" {
		t.Errorf("full_name = %v", updated["full_name"])
	}
	if _, leaked := updated["password"]; leaked {
		t.Error("password leaked in update response")
	}

	// The patch's plaintext password is hashed before persisting.
	stored, err := userstore.New(fx.DB()).FindByEmail(ctx, "a@beispiel.de")
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Password != auth.HashPassword("neuesgeheim") {
		t.Errorf("stored password digest = %q", stored.Password)
	}
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	h, fx := setup(t)
	u := fx.CreateUser(ctx, "a@beispiel.de", "pw", "spd-teststadt")
	id := u.ID.Hex()

	rec := httptest.NewRecorder()
	req := testutil.JSONRequest(t, http.MethodPut, "/api/users/"+id+"/role", map[string]any{
		"org_role": "kassierer",
	})
	h.UpdateRole(rec, testutil.WithChiURLParam(req, "id", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if view := testutil.DecodeJSON(t, rec); view["org_role"] != "kassierer" {
		t.Errorf("org_role = %v", view["org_role"])
	}
}

func TestUserNotFound(t *testing.T) {
	h, _ := setup(t)
	missing := "656565656565656565656565"

	rec := httptest.NewRecorder()
	h.Get(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/"+missing, nil), "id", missing))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d", rec.Code)
	}
	if detail := testutil.DecodeJSON(t, rec)["detail"]; detail != "User not found" {
		t.Errorf("detail = %v", detail)
	}

	rec = httptest.NewRecorder()
	req := testutil.JSONRequest(t, http.MethodPut, "/api/users/"+missing+"/role", map[string]any{"org_role": "x"})
	h.UpdateRole(rec, testutil.WithChiURLParam(req, "id", missing))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("role status = %d", rec.Code)
	}
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
